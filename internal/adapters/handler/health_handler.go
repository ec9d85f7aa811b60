package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const dependencyCheckTimeout = 5 * time.Second

// DependencyCheck is one readiness probe target.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	checks    []DependencyCheck
	startTime time.Time
	version   string
	log       *slog.Logger
}

func NewHealthHandler(version string, log *slog.Logger, checks ...DependencyCheck) *HealthHandler {
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		checks:    checks,
		startTime: time.Now(),
		version:   version,
		log:       log,
	}
}

// HealthResponse follows Kubernetes/OpenShift health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health is a simple liveness check - just confirms the Go process is running
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": {Status: "UP"}},
	})
}

// Live is an alias for Health - simple liveness check
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// Ready runs every dependency check and reports DOWN if any fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	checks := make(map[string]Check, len(h.checks))
	status := "UP"
	httpStatus := http.StatusOK

	for _, dep := range h.checks {
		c := h.run(r.Context(), dep)
		checks[dep.Name] = c
		if c.Status != "UP" {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	})
}

func (h *HealthHandler) run(ctx context.Context, dep DependencyCheck) Check {
	if dep.Check == nil {
		return Check{Status: "DOWN", Message: dep.Name + " is not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, dependencyCheckTimeout)
	defer cancel()

	if err := dep.Check(ctx); err != nil {
		h.log.Warn("readiness check failed", "dependency", dep.Name, "error", err)
		return Check{Status: "DOWN", Message: "Cannot reach " + dep.Name}
	}
	return Check{Status: "UP"}
}

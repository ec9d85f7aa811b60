package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/handler"
	"github.com/AchilleasB/classbank/ledger-service/internal/logging"
)

func up(context.Context) error { return nil }

// TestHealthHandler_Health_ProcessCheck tests the basic health endpoint.
func TestHealthHandler_Health_ProcessCheck(t *testing.T) {
	h := handler.NewHealthHandler("1.2.3", logging.Discard())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got %q", ct)
	}

	var response handler.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "UP" || response.Version != "1.2.3" {
		t.Errorf("unexpected response %+v", response)
	}
	if _, ok := response.Checks["process"]; !ok {
		t.Error("expected 'process' check in response")
	}
	if response.Uptime == "" {
		t.Error("expected non-empty uptime")
	}
}

// TestHealthHandler_InvalidMethod tests method validation.
func TestHealthHandler_InvalidMethod(t *testing.T) {
	h := handler.NewHealthHandler("", logging.Discard())

	methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete}
	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			for _, serve := range []http.HandlerFunc{h.Health, h.Ready} {
				rec := httptest.NewRecorder()
				serve(rec, httptest.NewRequest(method, "/health", nil))

				if rec.Code != http.StatusMethodNotAllowed {
					t.Errorf("expected status %d for %s, got %d", http.StatusMethodNotAllowed, method, rec.Code)
				}
			}
		})
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		checks     []handler.DependencyCheck
		wantStatus int
		wantDown   []string
	}{
		{
			name:       "all_up",
			checks:     []handler.DependencyCheck{{Name: "storage", Check: up}, {Name: "redis", Check: up}},
			wantStatus: http.StatusOK,
		},
		{
			name: "one_down",
			checks: []handler.DependencyCheck{
				{Name: "storage", Check: up},
				{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantDown:   []string{"redis"},
		},
		{
			name:       "not_initialized",
			checks:     []handler.DependencyCheck{{Name: "rabbitmq"}},
			wantStatus: http.StatusServiceUnavailable,
			wantDown:   []string{"rabbitmq"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler("test", logging.Discard(), tt.checks...)
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var response handler.HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(response.Checks) != len(tt.checks) {
				t.Errorf("expected %d checks, got %v", len(tt.checks), response.Checks)
			}
			for _, name := range tt.wantDown {
				if c := response.Checks[name]; c.Status != "DOWN" || c.Message == "" {
					t.Errorf("expected %s DOWN with a message, got %+v", name, c)
				}
			}
		})
	}
}

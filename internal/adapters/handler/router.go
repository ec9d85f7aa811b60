package handler

import (
	"net/http"

	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/middleware"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
)

type Handlers struct {
	Auth    *AuthHandler
	Student *StudentHandler
	Admin   *AdminHandler
	Public  *PublicHandler
	Export  *ExportHandler
	Health  *HealthHandler
	Metrics http.Handler
}

var (
	allRoles  = []domain.Role{domain.RoleAdmin, domain.RoleDeveloper, domain.RoleStudent}
	students  = rolesWith(domain.Role.CanTrade)
	admins    = rolesWith(domain.Role.CanManageClasses)
	developer = rolesWith(domain.Role.CanExport)
)

func rolesWith(capability func(domain.Role) bool) []domain.Role {
	var roles []domain.Role
	for _, r := range allRoles {
		if capability(r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// NewRouter registers every route on a fresh mux.
func NewRouter(h Handlers, auth *middleware.AuthMiddleware) *http.ServeMux {
	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("/health", h.Health.Health)
	mux.HandleFunc("/health/ready", h.Health.Ready)
	mux.HandleFunc("/health/live", h.Health.Live)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	mux.HandleFunc("POST /login", h.Auth.Login)
	mux.HandleFunc("POST /logout", auth.RequireRole(allRoles, h.Auth.Logout))

	mux.HandleFunc("GET /catalog", auth.RequireRole(allRoles, h.Public.Catalog))
	mux.HandleFunc("GET /leaderboard", auth.RequireRole(allRoles, h.Public.Leaderboard))

	mux.HandleFunc("GET /student/dashboard", auth.RequireRole(students, h.Student.Dashboard))
	mux.HandleFunc("POST /student/savings", auth.RequireRole(students, h.Student.Deposit))
	mux.HandleFunc("POST /student/purchases", auth.RequireRole(students, h.Student.Purchase))

	mux.HandleFunc("GET /admin/classes", auth.RequireRole(admins, h.Admin.ListClasses))
	mux.HandleFunc("POST /admin/classes", auth.RequireRole(admins, h.Admin.CreateClass))
	mux.HandleFunc("POST /admin/classes/{class}/students", auth.RequireRole(admins, h.Admin.AddStudents))
	mux.HandleFunc("GET /admin/classes/{class}/students/{username}", auth.RequireRole(admins, h.Admin.Student))
	mux.HandleFunc("POST /admin/classes/{class}/students/{username}/credit", auth.RequireRole(admins, h.Admin.Credit))
	mux.HandleFunc("GET /admin/classes/{class}/orders", auth.RequireRole(admins, h.Admin.PendingOrders))
	mux.HandleFunc("POST /admin/classes/{class}/students/{username}/orders/{orderID}/approve", auth.RequireRole(admins, h.Admin.Approve))
	mux.HandleFunc("POST /admin/classes/{class}/students/{username}/orders/{orderID}/deny", auth.RequireRole(admins, h.Admin.Deny))

	mux.HandleFunc("GET /developer/export", auth.RequireRole(developer, h.Export.Export))

	return mux
}

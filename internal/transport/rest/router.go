package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/frahmantamala/merchant-management/internal/admin"
	"github.com/frahmantamala/merchant-management/internal/airwallex"
	"github.com/frahmantamala/merchant-management/internal/auditlog"
	"github.com/frahmantamala/merchant-management/internal/auth"
	"github.com/frahmantamala/merchant-management/internal/currency"
	"github.com/frahmantamala/merchant-management/internal/transport/middleware"
	"github.com/frahmantamala/merchant-management/internal/transport/swagger"
	"github.com/frahmantamala/merchant-management/internal/user"
	"github.com/frahmantamala/merchant-management/internal/webhook"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth      *auth.Handler
	User      *user.Handler
	Admin     *admin.Handler
	Currency  *currency.Handler
	Webhook   *webhook.Handler
	AuditLog  *auditlog.Handler
	Airwallex *airwallex.Handler
}

// RegisterAllRoutes mounts the full API under /api/v1. Write operations sit
// behind permission middleware; the audit middleware records requests whose
// path matches the configured prefixes.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, redisClient *redis.Client, h Handlers, rbac *auth.RBACAuthorization, auditRecorder middleware.AuditRecorder, auditPrefixes []string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, redisClient)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.AuditLogMiddleware(auditRecorder, auditPrefixes))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/register", h.Auth.Register)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// External services push their own audit entries here.
		r.Post("/logs/external", h.AuditLog.CreateExternal)

		// Protected routes
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/me", h.Auth.Me)

			// User management
			pr.Route("/users", func(ur chi.Router) {
				ur.Use(rbac.RequirePermission(auth.PermManageUsers))
				ur.Post("/", h.User.Create)
				ur.Get("/", h.User.GetAll)
				ur.Get("/paginated", h.User.GetPaginated)
				ur.Get("/{id}", h.User.GetByID)
				ur.Get("/by-type/{id}", h.User.GetByUserType)
				ur.Patch("/{id}", h.User.Update)
				ur.Delete("/{id}", h.User.Delete)
			})

			// Admin-only; /admin/users mirrors the user-management
			// endpoints but its listing includes soft-deleted users.
			pr.Route("/admin", func(ar chi.Router) {
				ar.Use(rbac.RequireAdmin())
				ar.Get("/stats", h.Admin.GetStats)
				ar.Get("/users", h.Admin.GetAllUsers)
				ar.Post("/users", h.User.Create)
				ar.Get("/users/{id}", h.User.GetByID)
				ar.Patch("/users/{id}", h.User.Update)
				ar.Delete("/users/{id}", h.User.Delete)
				ar.Patch("/users/{id}/reactivate", h.Admin.ReactivateUser)
			})

			// Currency reads for any authenticated user
			pr.Route("/currency", func(cr chi.Router) {
				cr.Get("/groups", h.Currency.GetAllGroups)
				cr.Get("/groups/{id}", h.Currency.GetGroup)
				cr.Get("/currencies", h.Currency.GetAllCurrencies)
				cr.Get("/currencies/{id}", h.Currency.GetCurrency)
				cr.Get("/companies/{companyId}/rates", h.Currency.GetCompanyRates)
				cr.Get("/plans/{planId}/rates", h.Currency.GetPlanRates)
				cr.Get("/conversion-rate/{companyId}", h.Currency.Convert)
				cr.Get("/conversion-rate/airwallex/{accountId}", h.Currency.ConvertByAccount)

				// Currency writes need the manage permission
				cr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequirePermission(auth.PermManageCurrencies))
					mr.Post("/groups", h.Currency.CreateGroup)
					mr.Patch("/groups/{id}", h.Currency.UpdateGroup)
					mr.Delete("/groups/{id}", h.Currency.DeleteGroup)
					mr.Post("/currencies", h.Currency.CreateCurrency)
					mr.Patch("/currencies/{id}", h.Currency.UpdateCurrency)
					mr.Delete("/currencies/{id}", h.Currency.DeleteCurrency)
					mr.Post("/company-rates", h.Currency.CreateCompanyRate)
					mr.Patch("/company-rates/{id}", h.Currency.UpdateCompanyRate)
					mr.Delete("/company-rates/{id}", h.Currency.DeleteCompanyRate)
					mr.Post("/plan-rates", h.Currency.CreatePlanRate)
					mr.Patch("/plan-rates/{id}", h.Currency.UpdatePlanRate)
					mr.Delete("/plan-rates/{id}", h.Currency.DeletePlanRate)
				})
			})

			// Webhook configuration
			pr.Route("/webhooks", func(wr chi.Router) {
				wr.Use(rbac.RequirePermission(auth.PermManageWebhooks))
				wr.Get("/refs", h.Webhook.GetRefs)
				wr.Get("/channels", h.Webhook.GetChannels)
				wr.Get("/locales", h.Webhook.GetLocales)
				wr.Route("/event-types", func(er chi.Router) {
					er.Post("/", h.Webhook.CreateEventType)
					er.Get("/", h.Webhook.GetAllEventTypes)
					er.Get("/{id}", h.Webhook.GetEventType)
					er.Patch("/{id}", h.Webhook.UpdateEventType)
					er.Delete("/{id}", h.Webhook.DeleteEventType)
					er.Get("/{id}/templates", h.Webhook.GetTemplatesByEventType)
					er.Get("/{id}/rules", h.Webhook.GetRulesByEventType)
					er.Post("/{id}/evaluate", h.Webhook.Evaluate)
				})
				wr.Route("/templates", func(tr chi.Router) {
					tr.Post("/", h.Webhook.CreateTemplate)
					tr.Get("/{id}", h.Webhook.GetTemplate)
					tr.Patch("/{id}", h.Webhook.UpdateTemplate)
					tr.Delete("/{id}", h.Webhook.DeleteTemplate)
				})
				wr.Route("/processing-rules", func(rr chi.Router) {
					rr.Post("/", h.Webhook.CreateRule)
					rr.Get("/{id}", h.Webhook.GetRule)
					rr.Patch("/{id}", h.Webhook.UpdateRule)
					rr.Delete("/{id}", h.Webhook.DeleteRule)
				})
			})

			// Audit log reads
			pr.Route("/logs", func(lr chi.Router) {
				lr.Use(rbac.RequirePermission(auth.PermViewLogs))
				lr.Get("/", h.AuditLog.GetAll)
				lr.Get("/paginated", h.AuditLog.GetPaginated)
			})

			// Provider file proxy
			pr.Route("/airwallex/files", func(fr chi.Router) {
				fr.Post("/upload", h.Airwallex.UploadFile)
				fr.Post("/download-links", h.Airwallex.GetDownloadLinks)
				fr.Get("/{fileId}/download-link", h.Airwallex.GetDownloadLink)
			})
		})
	})
}

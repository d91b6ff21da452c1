package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/abramad/crisis-game-api/internal/application/admin"
	"github.com/abramad/crisis-game-api/internal/application/lead"
	"github.com/abramad/crisis-game-api/internal/application/otp"
	"github.com/abramad/crisis-game-api/internal/config"
	"github.com/abramad/crisis-game-api/internal/transport/http/handler"
	appmiddleware "github.com/abramad/crisis-game-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, on the SMS-triggering endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpSvc := otp.NewService(deps.OTPRepo, deps.SMSSender, cfg.OTPTTL)
	leadSvc := lead.NewService(deps.LeadRepo, deps.Mailer, cfg.LeadNotifyEmail, cfg.AllowedEmailDomain)

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc, !cfg.IsProduction())
	leadH := handler.NewLeadHandler(leadSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		// ── Game flow (public, POST-only) ────────────────────────────────────
		r.Route("/otp", func(r chi.Router) {
			r.MethodNotAllowed(postOnly)
			r.With(sensitiveRL.Limit).Post("/request", otpH.Request)
			r.With(sensitiveRL.Limit).Post("/verify", otpH.Verify)
		})
		r.Route("/leads", func(r chi.Router) {
			r.MethodNotAllowed(postOnly)
			r.Post("/check", leadH.Check)
			r.Post("/", leadH.Submit)
		})

		// ── Admin surface (mounted only when fully configured) ───────────────
		if deps.JWTProvider != nil && cfg.AdminUsername != "" && cfg.AdminPasswordHash != "" {
			var store admin.ObjectStore
			if deps.S3Store != nil {
				store = deps.S3Store
			}
			adminSvc := admin.NewService(deps.LeadRepo, deps.JWTProvider, store, cfg.AdminUsername, cfg.AdminPasswordHash)
			adminH := handler.NewAdminHandler(adminSvc)

			r.Route("/admin", func(r chi.Router) {
				r.With(sensitiveRL.Limit).Post("/login", adminH.Login)

				r.Group(func(r chi.Router) {
					r.Use(appmiddleware.Auth(deps.JWTProvider))
					r.Get("/leads", adminH.ListLeads)
					r.Post("/leads/export", adminH.ExportLeads)
				})
			})
		}
	})

	return r
}

// postOnly answers non-POST methods on the game endpoints with an explicit
// Allow header, per the client contract.
func postOnly(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", "POST")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_, _ = w.Write([]byte(`{"error":"Method not allowed"}`))
}

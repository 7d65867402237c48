package http

import (
	"net/http"

	"github.com/addisnest/api/internal/config"
	"github.com/addisnest/api/internal/domain"
	"github.com/addisnest/api/internal/transport/http/handler"
	appmiddleware "github.com/addisnest/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.Tokens)

	// 5 requests/second, burst of 10, on code and credential endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(deps.Auth)
	mediaH := handler.NewMediaHandler(deps.Media, cfg.UploadMaxBytes)
	propertyH := handler.NewPropertyHandler(deps.Properties)

	// ── Public routes (no auth) ──────────────────────────────────────────
	r.Get("/health", healthH.Check)
	r.Get("/uploads/{filename}", mediaH.Serve)
	r.Get("/properties", propertyH.List)
	r.Get("/properties/{id}", propertyH.Get)
	r.With(appmiddleware.OptionalAuth(deps.Tokens)).Post("/media/upload", mediaH.Upload)

	r.Route("/auth", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/request-otp", authH.RequestOTP)
		r.With(sensitiveRL.Limit).Post("/verify-otp", authH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/verify-social-login", authH.VerifySocialLogin)
		r.With(sensitiveRL.Limit).Post("/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/login", authH.Login)
		r.With(authMw).Get("/me", authH.Me)
	})

	// ── Authenticated routes ─────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Post("/properties", propertyH.Create)
		r.Delete("/properties/{id}", propertyH.Delete)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

			r.Put("/properties/{id}/promote", propertyH.Promote)
		})
	})

	return r
}

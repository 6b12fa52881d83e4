package api

import (
	"net/http"

	"github.com/dom/auth-starter/internal/api/handlers"
	"github.com/dom/auth-starter/internal/api/middleware"
	"github.com/dom/auth-starter/internal/config"
	"github.com/dom/auth-starter/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, logger, !cfg.IsDevelopment())
	gate := middleware.Auth(services.Auth, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/user-registration", authHandler.Register)
			r.Post("/user-login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.Post("/verify-email", authHandler.VerifyEmail)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		if services.Files != nil {
			fileHandler := handlers.NewFileHandler(services.Files, logger)
			r.Route("/files", func(r chi.Router) {
				r.Use(gate)
				r.Post("/", fileHandler.Upload)
				r.Get("/", fileHandler.List)
				r.Get("/url", fileHandler.SignedURL)
				r.Delete("/", fileHandler.Delete)
			})
		}
	})

	return r
}

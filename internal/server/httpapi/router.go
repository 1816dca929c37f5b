package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Francortiz-137/taskflow-backend/internal/server/auth"
	"github.com/Francortiz-137/taskflow-backend/internal/server/ratelimit"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Tokens               *auth.TokenManager
	Auth                 AuthProvider
	Tasks                TaskProvider
	Attachments          AttachmentProvider
	Limiter              ratelimit.Limiter
	LoginRatePerMinute   int
	RefreshRatePerMinute int
}

// NewRouter assembles the API routes. Only login and refresh sit behind the
// rate limiter; both are keyed by client address so one abusive client does
// not starve the rest.
func NewRouter(deps RouterDeps) http.Handler {
	authHandler := NewAuthHandler(deps.Auth)
	taskHandler := NewTaskHandler(deps.Tasks)
	attachmentHandler := NewAttachmentHandler(deps.Attachments)

	loginKey := func(r *http.Request) string { return "login:" + ClientIP(r) }
	refreshKey := func(r *http.Request) string { return "refresh:" + ClientIP(r) }

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(Authenticate(deps.Tokens))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.With(RateLimit(deps.Limiter, loginKey, deps.LoginRatePerMinute)).
				Post("/login", authHandler.Login)
			r.With(RateLimit(deps.Limiter, refreshKey, deps.RefreshRatePerMinute)).
				Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			r.With(RequireAuth).Get("/me", authHandler.Me)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Patch("/{id}/status", taskHandler.UpdateStatus)
			r.Delete("/{id}", taskHandler.Delete)
			r.Post("/{id}/attachments", attachmentHandler.RequestUpload)
		})

		r.Route("/attachments", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Post("/{id}/complete", attachmentHandler.Complete)
			r.Get("/{id}/download", attachmentHandler.Download)
		})
	})

	return r
}

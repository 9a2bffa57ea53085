package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"lireddit/internal/httputil"
	"lireddit/internal/session"
	sessionmw "lireddit/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	GraphQLHandler http.Handler
	Sessions       *session.Manager
	CORSOrigin     string
}

// NewRouter creates the chi router: health check plus the GraphQL endpoint.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// the browser client sends the session cookie cross-origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.With(sessionmw.SessionMiddleware(cfg.Sessions)).Post("/graphql", cfg.GraphQLHandler.ServeHTTP)

	return r
}

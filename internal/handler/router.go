package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/pkg/respond"
)

// NewRouter собирает HTTP API под префиксом /api
func NewRouter(h *TaskHandler, logger *zap.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Location"},
		MaxAge:         300,
	}))

	// Неизвестный метод на известном пути - такой же 404, как и неизвестный путь
	r.NotFound(routeNotFound)
	r.MethodNotAllowed(routeNotFound)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, r, http.StatusOK, "Server is running")
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, r, http.StatusNotFound, "Route not found")
}

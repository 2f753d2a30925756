package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/myflix/myflix-be/internal/api/handlers"
	"github.com/myflix/myflix-be/internal/auth"
	"github.com/myflix/myflix-be/internal/metrics"
	"github.com/myflix/myflix-be/internal/services"
	"github.com/prometheus/client_golang/prometheus"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	userService services.UserServiceProvider,
	movieService services.MovieServiceProvider,
	eventService services.EventServiceProvider,
	tokens *auth.TokenService,
	collector *metrics.Collector,
	registry *prometheus.Registry,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware(collector))

	// CORS configuration, open like the original client expects
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens, collector)
	movieHandler := handlers.NewMovieHandler(movieService)
	eventHandler := handlers.NewEventHandler(eventService)

	// Public endpoints
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("Welcome to myFlix!"))
	})
	if registry != nil {
		r.Method("GET", "/metrics", metrics.Handler(registry))
	}
	r.Post("/users", userHandler.Register)
	r.Post("/login", userHandler.Login)

	// Everything below requires a verified bearer token
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, userService, collector))

		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", userHandler.Get)
			r.Put("/", userHandler.Update)
			r.Delete("/", userHandler.Delete)
			r.Post("/movies/{movieID}", userHandler.AddFavorite)
			r.Delete("/movies/{movieID}", userHandler.RemoveFavorite)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", movieHandler.GetAll)
			r.Get("/genre/{genreName}", movieHandler.GetGenre)
			r.Get("/director/{directorName}", movieHandler.GetDirector)
			r.Get("/{title}", movieHandler.Get)
		})

		r.Get("/events", eventHandler.GetRecent)
	})

	return r
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/myflix/myflix-be/internal/models"
	"github.com/myflix/myflix-be/internal/services"
	"github.com/rs/zerolog/log"
)

// MovieHandler handles HTTP requests for the movie catalog.
type MovieHandler struct {
	service services.MovieServiceProvider
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(service services.MovieServiceProvider) *MovieHandler {
	return &MovieHandler{service: service}
}

// GetAll handles listing every movie in the catalog.
func (h *MovieHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.GetAllMovies(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list movies")
		http.Error(w, "Failed to list movies", http.StatusInternalServerError)
		return
	}
	if movies == nil {
		movies = []models.Movie{}
	}

	writeJSON(w, http.StatusOK, movies)
}

// Get handles retrieving a single movie by its exact title.
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	movie, err := h.service.GetMovieByTitle(r.Context(), title)
	if err != nil {
		if errors.Is(err, models.ErrMovieNotFound) {
			http.Error(w, "Movie not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("title", title).Msg("Failed to get movie")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// GetGenre handles retrieving genre details by genre name.
func (h *MovieHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "genreName")
	genre, err := h.service.GetGenreByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, models.ErrMovieNotFound) {
			http.Error(w, "Genre not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("genre", name).Msg("Failed to get genre")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, genre)
}

// GetDirector handles retrieving director details by director name.
func (h *MovieHandler) GetDirector(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "directorName")
	director, err := h.service.GetDirectorByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, models.ErrMovieNotFound) {
			http.Error(w, "Director not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("director", name).Msg("Failed to get director")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, director)
}

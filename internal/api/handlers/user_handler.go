package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/myflix/myflix-be/internal/models"
	"github.com/myflix/myflix-be/internal/services"
	"github.com/rs/zerolog/log"
)

// TokenIssuer mints a signed bearer token for an authenticated user.
type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

// LoginMetrics records login attempt outcomes. May be nil.
type LoginMetrics interface {
	RecordLogin(outcome string)
}

// UserHandler handles HTTP requests for account management.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  TokenIssuer
	metrics LoginMetrics
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens TokenIssuer, metrics LoginMetrics) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, metrics: metrics}
}

// UserPayload defines the structure for registration and profile updates.
type UserPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Birthday string `json:"birthday"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) recordLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(outcome)
	}
}

// parseBirthday accepts a plain date or an RFC 3339 timestamp.
func parseBirthday(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *UserHandler) userParams(payload UserPayload) (services.UserParams, error) {
	birthday, err := parseBirthday(payload.Birthday)
	if err != nil {
		return services.UserParams{}, err
	}
	return services.UserParams{
		Username: payload.Username,
		Password: payload.Password,
		Email:    payload.Email,
		Birthday: birthday,
	}, nil
}

// Register handles new account registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params, err := h.userParams(payload)
	if err != nil {
		http.Error(w, "Invalid birthday format", http.StatusBadRequest)
		return
	}

	user, err := h.service.CreateUser(r.Context(), params)
	if err != nil {
		var validationErr *models.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeJSON(w, http.StatusUnprocessableEntity, validationErr)
		case errors.Is(err, models.ErrUsernameTaken):
			http.Error(w, fmt.Sprintf("%s already exists!", payload.Username), http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
			http.Error(w, "Failed to register user", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles credential verification and token issuance. Unknown
// usernames and wrong passwords share one generic response.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, models.ErrBadCredentials) {
			h.recordLogin("rejected")
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "incorrect username or password"})
			return
		}
		h.recordLogin("error")
		log.Error().Err(err).Msg("Authentication failed against the store")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.recordLogin("error")
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to issue token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	h.recordLogin("ok")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Get handles retrieving an account by username.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.service.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to get user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update handles replacing an account's profile information.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	var payload UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params, err := h.userParams(payload)
	if err != nil {
		http.Error(w, "Invalid birthday format", http.StatusBadRequest)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), username, params)
	if err != nil {
		var validationErr *models.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeJSON(w, http.StatusUnprocessableEntity, validationErr)
		case errors.Is(err, models.ErrUserNotFound):
			http.Error(w, fmt.Sprintf("%s doesn't exist!", username), http.StatusBadRequest)
		case errors.Is(err, models.ErrUsernameTaken):
			http.Error(w, fmt.Sprintf("%s already exists!", payload.Username), http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("username", username).Msg("Failed to update user")
			http.Error(w, "Failed to update user", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete handles the permanent deletion of an account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := h.service.DeleteUser(r.Context(), username); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			http.Error(w, fmt.Sprintf("%s was not found.", username), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to delete user")
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%s was deleted.", username)
}

// AddFavorite adds a movie to an account's favorites set.
func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.mutateFavorites(w, r, h.service.AddFavorite)
}

// RemoveFavorite removes a movie from an account's favorites set.
func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.mutateFavorites(w, r, h.service.RemoveFavorite)
}

func (h *UserHandler) mutateFavorites(w http.ResponseWriter, r *http.Request,
	mutate func(ctx context.Context, username, movieID string) (models.User, error)) {
	username := chi.URLParam(r, "username")
	movieID := chi.URLParam(r, "movieID")

	user, err := mutate(r.Context(), username, movieID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			http.Error(w, "No user with that username.", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("username", username).Str("movie_id", movieID).Msg("Failed to update favorites")
		http.Error(w, "Failed to update favorites", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

package models

import (
	"errors"
	"fmt"
	"strings"
)

// Classified failures shared across the auth and service layers. Callers
// match these with errors.Is; anything else is treated as a store failure.
var (
	ErrBadCredentials = errors.New("incorrect username or password")
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameTaken  = errors.New("username already exists")
	ErrMovieNotFound  = errors.New("movie not found")

	ErrMissingToken   = errors.New("missing auth token")
	ErrInvalidToken   = errors.New("invalid auth token")
	ErrTokenExpired   = errors.New("auth token expired")
	ErrUnknownSubject = errors.New("token subject no longer exists")
)

// FieldError reports a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates the field errors of one request.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

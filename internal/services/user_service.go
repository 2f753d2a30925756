package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/myflix/myflix-be/internal/auth"
	"github.com/myflix/myflix-be/internal/models"
	"github.com/rs/zerolog/log"
)

// UserParams carries the writable fields of an account.
type UserParams struct {
	Username string
	Password string
	Email    string
	Birthday *time.Time
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, params UserParams) (models.User, error)
	UpdateUser(ctx context.Context, username string, params UserParams) (models.User, error)
	DeleteUser(ctx context.Context, username string) error
	AddFavorite(ctx context.Context, username, movieID string) (models.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, events EventServiceProvider) *UserService {
	return &UserService{db: db, events: events}
}

// GetUserByUsername retrieves a single user by exact username match,
// favorites included, password hash omitted.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	user, err := s.getUserWithHash(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	return user.Sanitize(), nil
}

// getUserWithHash loads a user including the stored password hash.
func (s *UserService) getUserWithHash(ctx context.Context, username string) (models.User, error) {
	var user models.User
	var birthday sql.NullTime
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, birthday, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &birthday, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrUserNotFound
		}
		return models.User{}, err
	}
	if birthday.Valid {
		user.Birthday = &birthday.Time
	}

	favorites, err := s.loadFavorites(ctx, user.ID)
	if err != nil {
		return models.User{}, err
	}
	user.FavoriteMovies = favorites
	return user, nil
}

func (s *UserService) loadFavorites(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT movie_id FROM favorites WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := []string{}
	for rows.Next() {
		var movieID string
		if err := rows.Scan(&movieID); err != nil {
			return nil, err
		}
		favorites = append(favorites, movieID)
	}
	return favorites, rows.Err()
}

// CreateUser registers a new account, hashing the password before storage.
func (s *UserService) CreateUser(ctx context.Context, params UserParams) (models.User, error) {
	if err := validateUserParams(params); err != nil {
		return models.User{}, err
	}

	taken, err := s.usernameExists(ctx, params.Username)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, models.ErrUsernameTaken
	}

	hashedPassword, err := auth.HashPassword(params.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users(id, username, email, password_hash, birthday) VALUES(?, ?, ?, ?, ?)",
		id, params.Username, params.Email, hashedPassword, params.Birthday)
	if err != nil {
		return models.User{}, err
	}

	s.recordEvent(ctx, "user.register", "info", fmt.Sprintf("account %s created", params.Username), params.Username)
	return s.GetUserByUsername(ctx, params.Username)
}

// UpdateUser replaces an account's profile fields, re-hashing the password.
func (s *UserService) UpdateUser(ctx context.Context, username string, params UserParams) (models.User, error) {
	if err := validateUserParams(params); err != nil {
		return models.User{}, err
	}

	existing, err := s.getUserWithHash(ctx, username)
	if err != nil {
		return models.User{}, err
	}

	if params.Username != username {
		taken, err := s.usernameExists(ctx, params.Username)
		if err != nil {
			return models.User{}, err
		}
		if taken {
			return models.User{}, models.ErrUsernameTaken
		}
	}

	hashedPassword, err := auth.HashPassword(params.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE users SET username = ?, email = ?, password_hash = ?, birthday = ? WHERE id = ?",
		params.Username, params.Email, hashedPassword, params.Birthday, existing.ID)
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByUsername(ctx, params.Username)
}

// DeleteUser removes an account. Issued tokens keep verifying
// cryptographically but no longer resolve to a subject.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrUserNotFound
	}

	s.recordEvent(ctx, "user.delete", "info", fmt.Sprintf("account %s deleted", username), username)
	return nil
}

// AddFavorite adds a movie to the user's favorites set. Adding an already
// present movie is a no-op; the store's INSERT OR IGNORE keeps the
// operation atomic under concurrent requests.
func (s *UserService) AddFavorite(ctx context.Context, username, movieID string) (models.User, error) {
	user, err := s.getUserWithHash(ctx, username)
	if err != nil {
		return models.User{}, err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO favorites(user_id, movie_id) VALUES(?, ?)", user.ID, movieID)
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByUsername(ctx, username)
}

// RemoveFavorite removes a movie from the user's favorites set. Removing
// an absent movie is a no-op.
func (s *UserService) RemoveFavorite(ctx context.Context, username, movieID string) (models.User, error) {
	user, err := s.getUserWithHash(ctx, username)
	if err != nil {
		return models.User{}, err
	}

	_, err = s.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = ? AND movie_id = ?", user.ID, movieID)
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByUsername(ctx, username)
}

// Authenticate verifies a user's credentials. An unknown username and a
// wrong password both surface as ErrBadCredentials so a caller cannot
// probe which usernames exist; the distinction lives in debug logs only.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.getUserWithHash(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Debug().Str("username", username).Msg("login attempt for unknown username")
			s.recordEvent(ctx, "user.login", "warn", "failed login attempt", username)
			return models.User{}, models.ErrBadCredentials
		}
		return models.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		log.Debug().Str("username", username).Msg("login attempt with wrong password")
		s.recordEvent(ctx, "user.login", "warn", "failed login attempt", username)
		return models.User{}, models.ErrBadCredentials
	}

	s.recordEvent(ctx, "user.login", "info", "successful login", username)
	return user.Sanitize(), nil
}

func (s *UserService) usernameExists(ctx context.Context, username string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE username = ?", username).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// recordEvent writes to the activity trail. Failures are logged and
// swallowed: the trail must never fail the request that produced it.
func (s *UserService) recordEvent(ctx context.Context, eventType, level, message, username string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(ctx, eventType, level, message, &username); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("failed to record event")
	}
}

// validateUserParams applies the registration rules: username of at least
// five alphanumeric characters, non-empty password, well-formed email.
func validateUserParams(params UserParams) error {
	var fieldErrors []models.FieldError

	if len(params.Username) < 5 {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "Username", Message: "Username must be at least 5 characters long",
		})
	} else if !isAlphanumeric(params.Username) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "Username", Message: "Username contains non alphanumeric characters - not allowed",
		})
	}
	if params.Password == "" {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "Password", Message: "Password is required",
		})
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "Email", Message: "Email does not appear to be valid",
		})
	}

	if len(fieldErrors) > 0 {
		return &models.ValidationError{Errors: fieldErrors}
	}
	return nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/myflix/myflix-be/internal/models"
	"github.com/myflix/myflix-be/internal/services"
)

// mockUserService implements services.UserServiceProvider.
type mockUserService struct {
	getFn            func(ctx context.Context, username string) (models.User, error)
	createFn         func(ctx context.Context, params services.UserParams) (models.User, error)
	updateFn         func(ctx context.Context, username string, params services.UserParams) (models.User, error)
	deleteFn         func(ctx context.Context, username string) error
	addFavoriteFn    func(ctx context.Context, username, movieID string) (models.User, error)
	removeFavoriteFn func(ctx context.Context, username, movieID string) (models.User, error)
	authenticateFn   func(ctx context.Context, username, password string) (models.User, error)
}

func (m *mockUserService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return m.getFn(ctx, username)
}

func (m *mockUserService) CreateUser(ctx context.Context, params services.UserParams) (models.User, error) {
	return m.createFn(ctx, params)
}

func (m *mockUserService) UpdateUser(ctx context.Context, username string, params services.UserParams) (models.User, error) {
	return m.updateFn(ctx, username, params)
}

func (m *mockUserService) DeleteUser(ctx context.Context, username string) error {
	return m.deleteFn(ctx, username)
}

func (m *mockUserService) AddFavorite(ctx context.Context, username, movieID string) (models.User, error) {
	return m.addFavoriteFn(ctx, username, movieID)
}

func (m *mockUserService) RemoveFavorite(ctx context.Context, username, movieID string) (models.User, error) {
	return m.removeFavoriteFn(ctx, username, movieID)
}

func (m *mockUserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	return m.authenticateFn(ctx, username, password)
}

type mockIssuer struct {
	issueFn func(user models.User) (string, error)
}

func (m *mockIssuer) Issue(user models.User) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(user)
	}
	return "token-abc", nil
}

func TestLogin_Success(t *testing.T) {
	svc := &mockUserService{
		authenticateFn: func(ctx context.Context, username, password string) (models.User, error) {
			if username != "alice1" || password != "secret123" {
				t.Errorf("credentials = %q/%q", username, password)
			}
			return models.User{ID: "u-1", Username: username}, nil
		},
	}
	h := NewUserHandler(svc, &mockIssuer{}, nil)

	body := strings.NewReader(`{"Username":"alice1","Password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token != "token-abc" {
		t.Fatalf("token = %q, want token-abc", resp.Token)
	}
	if resp.User.Username != "alice1" {
		t.Fatalf("user = %q, want alice1", resp.User.Username)
	}
}

func TestLogin_BadCredentials_GenericResponse(t *testing.T) {
	// Unknown usernames and wrong passwords must be indistinguishable.
	bodies := make([]string, 0, 2)

	for i := 0; i < 2; i++ {
		svc := &mockUserService{
			authenticateFn: func(ctx context.Context, username, password string) (models.User, error) {
				return models.User{}, models.ErrBadCredentials
			},
		}
		h := NewUserHandler(svc, &mockIssuer{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"Username":"ghost","Password":"x"}`))
		w := httptest.NewRecorder()
		h.Login(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		bodies = append(bodies, w.Body.String())
	}

	if bodies[0] != bodies[1] {
		t.Fatalf("failure bodies differ: %q vs %q", bodies[0], bodies[1])
	}
}

func TestLogin_StoreError(t *testing.T) {
	svc := &mockUserService{
		authenticateFn: func(ctx context.Context, username, password string) (models.User, error) {
			return models.User{}, errors.New("store unreachable")
		},
	}
	h := NewUserHandler(svc, &mockIssuer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"Username":"alice1","Password":"x"}`))
	w := httptest.NewRecorder()
	h.Login(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestLogin_NoTokenOnFailure(t *testing.T) {
	issued := false
	svc := &mockUserService{
		authenticateFn: func(ctx context.Context, username, password string) (models.User, error) {
			return models.User{}, models.ErrBadCredentials
		},
	}
	issuer := &mockIssuer{
		issueFn: func(user models.User) (string, error) {
			issued = true
			return "", nil
		},
	}
	h := NewUserHandler(svc, issuer, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"Username":"alice1","Password":"bad"}`))
	w := httptest.NewRecorder()
	h.Login(w, req)

	if issued {
		t.Fatal("no token may be issued for rejected credentials")
	}
}

func TestRegister_Success(t *testing.T) {
	svc := &mockUserService{
		createFn: func(ctx context.Context, params services.UserParams) (models.User, error) {
			if params.Username != "alice1" || params.Email != "a@example.com" {
				t.Errorf("params = %+v", params)
			}
			return models.User{ID: "u-1", Username: params.Username, Email: params.Email}, nil
		},
	}
	h := NewUserHandler(svc, &mockIssuer{}, nil)

	body := strings.NewReader(`{"Username":"alice1","Password":"secret123","Email":"a@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestRegister_ValidationFailure(t *testing.T) {
	svc := &mockUserService{
		createFn: func(ctx context.Context, params services.UserParams) (models.User, error) {
			return models.User{}, &models.ValidationError{Errors: []models.FieldError{
				{Field: "Username", Message: "Username must be at least 5 characters long"},
			}}
		},
	}
	h := NewUserHandler(svc, &mockIssuer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"Username":"al","Password":"x","Email":"a@example.com"}`))
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}

	var resp models.ValidationError
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "Username" {
		t.Fatalf("errors = %v", resp.Errors)
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc := &mockUserService{
		createFn: func(ctx context.Context, params services.UserParams) (models.User, error) {
			return models.User{}, models.ErrUsernameTaken
		},
	}
	h := NewUserHandler(svc, &mockIssuer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"Username":"alice1","Password":"x","Email":"a@example.com"}`))
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), "already exists") {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestRegister_InvalidBody(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, &mockIssuer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

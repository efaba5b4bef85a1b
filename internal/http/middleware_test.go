package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jay6909/qkart-backend/internal/domain"
	"github.com/jay6909/qkart-backend/internal/token"
)

type userLoaderMock struct {
	user *domain.User
	err  error
}

func (m userLoaderMock) GetUserByEmail(context.Context, string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func newTokenService() *token.Service {
	return token.NewService(token.Config{Secret: "test-secret", AccessExpiry: time.Hour})
}

func TestAuthMiddleware_ResolvesUser(t *testing.T) {
	tokens := newTokenService()
	authTokens, err := tokens.GenerateAuthTokens("user@example.com")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	loader := userLoaderMock{user: &domain.User{Email: "user@example.com", WalletMoney: 500}}

	var seen *domain.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getUserFromContext(r.Context())
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer "+authTokens.Access.Token)

	AuthMiddleware(tokens, loader)(next).ServeHTTP(recorder, request)

	if seen == nil {
		t.Fatal("expected user in context")
	}
	if seen.Email != "user@example.com" {
		t.Errorf("Expected email user@example.com, got %s", seen.Email)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)

	AuthMiddleware(newTokenService(), userLoaderMock{})(next).ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer garbage")

	AuthMiddleware(newTokenService(), userLoaderMock{})(next).ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestAuthMiddleware_UnknownUser(t *testing.T) {
	tokens := newTokenService()
	authTokens, err := tokens.GenerateAuthTokens("ghost@example.com")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer "+authTokens.Access.Token)

	loader := userLoaderMock{err: errors.New("user not found")}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	AuthMiddleware(tokens, loader)(next).ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)

	RequestIDMiddleware(next).ServeHTTP(recorder, request)

	if recorder.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID header")
	}
}

func TestRequestIDMiddleware_PreservesIncomingID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("X-Request-ID", "req-42")

	RequestIDMiddleware(next).ServeHTTP(recorder, request)

	if got := recorder.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("Expected req-42, got %s", got)
	}
}

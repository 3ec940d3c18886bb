package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignupAndLogin(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo, "test-secret")

	resp, err := auth.Signup(context.Background(), "alice@example.com", "hunter22", "Alice")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if resp.User.ID == "" {
		t.Error("expected user ID to be assigned")
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if resp.User.Password == "hunter22" {
		t.Error("password must not be stored in plaintext")
	}

	if _, err := auth.Signup(context.Background(), "alice@example.com", "other", "Alice"); err == nil {
		t.Error("expected duplicate signup to fail")
	}

	login, err := auth.Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Errorf("login resolved wrong user: %s", login.User.ID)
	}

	if _, err := auth.Login(context.Background(), "alice@example.com", "wrong"); err == nil {
		t.Error("expected login with wrong password to fail")
	}
	if _, err := auth.Login(context.Background(), "nobody@example.com", "hunter22"); err == nil {
		t.Error("expected login for unknown email to fail")
	}
}

func TestVerifyAccessToken(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo, "test-secret")

	resp, err := auth.Signup(context.Background(), "alice@example.com", "hunter22", "Alice")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	user, err := auth.VerifyAccessToken(context.Background(), resp.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("unexpected user %q", user.Email)
	}

	if _, err := auth.VerifyAccessToken(context.Background(), "garbage"); err == nil {
		t.Error("expected garbage token to fail verification")
	}

	// Tokens signed with another secret must not verify.
	other := NewAuthService(repo, "other-secret")
	if _, err := other.VerifyAccessToken(context.Background(), resp.AccessToken); err == nil {
		t.Error("expected token signed with different secret to fail")
	}
}

func TestRefreshTokenFlow(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo, "test-secret")

	resp, err := auth.Signup(context.Background(), "alice@example.com", "hunter22", "Alice")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	refreshed, err := auth.RefreshToken(context.Background(), resp.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("expected a fresh access token")
	}

	if err := auth.Logout(context.Background(), resp.User.ID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := auth.RefreshToken(context.Background(), resp.RefreshToken); err == nil {
		t.Error("expected refresh token to be invalid after logout")
	}
}

func TestMiddlewareAttachesUser(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo, "test-secret")

	resp, err := auth.Signup(context.Background(), "alice@example.com", "hunter22", "Alice")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	var seenID string
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok {
			t.Fatal("expected user in context behind middleware")
		}
		seenID = user.ID
	}))

	req := httptest.NewRequest("GET", "/api/v1/sessions/popular", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: resp.AccessToken})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seenID != resp.User.ID {
		t.Errorf("middleware attached wrong user %q", seenID)
	}
}

func TestMiddlewareFallsBackToRefreshToken(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo, "test-secret")

	resp, err := auth.Signup(context.Background(), "alice@example.com", "hunter22", "Alice")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	called := false
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/api/v1/sessions/popular", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "expired-or-garbage"})
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: resp.RefreshToken})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 via refresh fallback, got %d", rec.Code)
	}
	if !called {
		t.Error("expected wrapped handler to run")
	}

	// A fresh access token cookie is minted on the way through.
	var minted bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "access_token" && c.Value != "" {
			minted = true
		}
	}
	if !minted {
		t.Error("expected a new access_token cookie after refresh fallback")
	}
}

func TestMiddlewareRejectsMissingAndInvalidTokens(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo, "test-secret")

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("wrapped handler must not run without identity")
	}))

	cases := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookies", nil},
		{"invalid access token", &http.Cookie{Name: "access_token", Value: "garbage"}},
		{"unknown refresh token", &http.Cookie{Name: "refresh_token", Value: "garbage"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/sessions/popular", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			env := decodeEnvelope(t, rec.Body.Bytes(), nil)
			if env.Success {
				t.Error("expected success=false")
			}
			if env.Error != "Not authenticated" {
				t.Errorf("expected 'Not authenticated', got %q", env.Error)
			}
		})
	}
}

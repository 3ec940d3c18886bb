package services

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/prepdeck/backend/models"
)

type AuthEndpoints struct {
	authService *AuthService
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.FullName, validation.Length(0, 255)),
	)
}

func NewAuthEndpoints(authService *AuthService) *AuthEndpoints {
	return &AuthEndpoints{
		authService: authService,
	}
}

func (e *AuthEndpoints) RegisterRoutes(r chi.Router) {
	r.Post("/login", e.LoginHandler)
	r.Post("/signup", e.SignupHandler)
	r.Post("/refresh", e.RefreshHandler)
}

// RegisterProtectedRoutes mounts the routes that need a resolved identity
func (e *AuthEndpoints) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/logout", e.LogoutHandler)
	r.Get("/me", e.MeHandler)
}

func publicUser(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"email":     u.Email,
		"full_name": u.FullName,
		"role":      u.Role,
		"job_role":  u.JobRole,
		"is_oauth":  u.IsOAuth(),
	}
}

func (e *AuthEndpoints) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, ErrValidation, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFailure(w, ErrValidation, err.Error())
		return
	}

	authResponse, err := e.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Error("Login failed", "error", err, "email", req.Email)
		writeFailure(w, ErrNotAuthenticated, "Invalid credentials")
		return
	}

	e.authService.SetAuthCookies(w, authResponse.AccessToken, authResponse.RefreshToken)
	writeSuccess(w, http.StatusOK, map[string]interface{}{"user": publicUser(authResponse.User)})

	slog.Info("User logged in", "user_id", authResponse.User.ID, "email", authResponse.User.Email)
}

func (e *AuthEndpoints) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, ErrValidation, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFailure(w, ErrValidation, err.Error())
		return
	}

	authResponse, err := e.authService.Signup(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		slog.Error("Signup failed", "error", err, "email", req.Email)
		writeFailure(w, ErrValidation, "Signup failed")
		return
	}

	e.authService.SetAuthCookies(w, authResponse.AccessToken, authResponse.RefreshToken)
	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Data:    map[string]interface{}{"user": publicUser(authResponse.User)},
	})

	slog.Info("User signed up", "user_id", authResponse.User.ID, "email", authResponse.User.Email)
}

func (e *AuthEndpoints) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	refreshToken := e.authService.GetTokenFromCookie(r, "refresh_token")
	if refreshToken == "" {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	authResponse, err := e.authService.RefreshToken(r.Context(), refreshToken)
	if err != nil {
		slog.Error("Token refresh failed", "error", err)
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	e.authService.SetAuthCookies(w, authResponse.AccessToken, "")
	writeSuccess(w, http.StatusOK, map[string]interface{}{"user": publicUser(authResponse.User)})

	slog.Info("Token refreshed", "user_id", authResponse.User.ID)
}

func (e *AuthEndpoints) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	if err := e.authService.Logout(r.Context(), user.ID); err != nil {
		writeFailure(w, ErrUpstream, "Logout failed")
		return
	}

	e.authService.ClearAuthCookies(w)
	writeSuccess(w, http.StatusOK, map[string]interface{}{"message": "Logout successful"})
}

func (e *AuthEndpoints) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"user": publicUser(user)})
}

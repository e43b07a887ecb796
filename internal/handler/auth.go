package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/server/authctx"
	"github.com/shashi-bhusan/fitpreneurs/internal/service"
)

type AuthHandler struct {
	Service service.AuthService
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/login/google", h.loginGoogle)
	r.Post("/refresh", h.refresh)
	r.Post("/logout", h.logout)
}

// RegisterAdminRoutes mounts account management for admins.
func (h AuthHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/users", h.createUser)
}

func (h AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.me)
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.Service.Login(r.Context(), service.LoginInput{
		Email:    strings.ToLower(req.Email),
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeAuthResponse(w, res)
}

func (h AuthHandler) loginGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"idToken" validate:"required"`
		Name    string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.Service.LoginWithGoogle(r.Context(), service.GoogleLoginInput{
		IDToken: req.IDToken,
		Name:    req.Name,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeAuthResponse(w, res)
}

func (h AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.Service.Refresh(r.Context(), service.RefreshInput{RefreshToken: req.RefreshToken})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeAuthResponse(w, res)
}

// logout is a no-op for stateless tokens; clients drop their copies.
func (h AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "logged out", nil)
}

func (h AuthHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Role     string `json:"role" validate:"omitempty,oneof=admin manager staff"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.Service.CreateUser(r.Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: req.Password,
		Role:     domain.UserRole(req.Role),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "user created", userPayload(*user))
}

func (h AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
	})
}

func userPayload(u domain.User) map[string]any {
	return map[string]any{
		"id":       u.ID.String(),
		"name":     u.Name,
		"email":    u.Email,
		"role":     string(u.Role),
		"isGoogle": u.IsGoogle,
	}
}

func writeAuthResponse(w http.ResponseWriter, res *service.AuthResult) {
	writeJSON(w, http.StatusOK, map[string]any{
		"token":        res.AccessToken,
		"refreshToken": res.RefreshToken,
		"expiresAt":    res.ExpiresAt.UTC().Format(time.RFC3339),
		"user":         userPayload(res.User),
	})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/intakehq/intake/internal/auth"
	"github.com/intakehq/intake/internal/core"
	"github.com/intakehq/intake/internal/core/store"
	"github.com/intakehq/intake/internal/metrics"
)

// AuthHandler serves account registration and login.
type AuthHandler struct {
	store  *store.Store
	tokens *auth.TokenService
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(st *store.Store, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{store: st, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Register handles POST /api/auth/register. Duplicate username/email return
// 400 with the single-key error body existing clients parse.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, map[string]string{"body": "request body must be valid JSON"})
		return
	}

	u := core.NewUser()
	u.Username = strings.TrimSpace(req.Username)
	u.Email = strings.TrimSpace(req.Email)

	if problems := u.ValidateRegistration(req.Password); len(problems) > 0 {
		writeFieldErrors(w, problems)
		return
	}

	taken, err := h.store.UsernameExists(r.Context(), u.Username)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if taken {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username already exists"})
		return
	}

	taken, err = h.store.EmailExists(r.Context(), u.Email)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if taken {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	u.PasswordHash = hash

	if err := h.store.CreateUser(r.Context(), u); err != nil {
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/auth/login. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, map[string]string{"body": "request body must be valid JSON"})
		return
	}

	u, err := h.store.GetUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		metrics.RecordAuthFailure("bad_credentials")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}

	token, err := h.tokens.Issue(u.Username, u.Role)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    token,
		Username: u.Username,
		Role:     string(u.Role),
	})
}

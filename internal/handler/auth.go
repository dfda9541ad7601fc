package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/FredrikNymoen/NoteApp/internal/apperror"
	"github.com/FredrikNymoen/NoteApp/internal/service"
)

// AuthHandler exposes the auth endpoints: token verification and user
// registration. Sign-in itself happens against the external identity
// provider — this server only verifies the tokens it issued.
type AuthHandler struct {
	registration *service.RegistrationService
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(registration *service.RegistrationService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{registration: registration, logger: logger}
}

// registerRequest is the body of POST /api/auth/register.
type registerRequest struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleVerify confirms that the caller's bearer token verified.
//
// HTTP: GET /api/auth/verify
//
// The route is mounted behind auth.RequireIdentity, which already rejected
// anonymous requests with 401 — so reaching this handler means the token was
// valid, and the handler doesn't re-check.
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "authenticated"})
}

// HandleRegister creates a user profile for a freshly signed-in identity.
//
// HTTP: POST /api/auth/register (unauthenticated)
// BODY: {"uid": "...", "name": "...", "email": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.registration.Register(r.Context(), req.UID, req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

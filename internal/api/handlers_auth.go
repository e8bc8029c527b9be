/**
 * @description
 * HTTP handlers for authentication and profile lookup: login, registration,
 * phone existence check, the Bearer-token /auth/me endpoint, and the public
 * profile fetch by id.
 *
 * @dependencies
 * - encoding/json, net/http: Standard Go libraries.
 * - internal/app, internal/domain: Service logic and request DTOs.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/byfort/wallet-service/internal/app"
	"github.com/byfort/wallet-service/internal/domain"
)

// WalletHandlers holds the application service and request-scoped settings
// that handlers need.
type WalletHandlers struct {
	service        *app.Service
	jwtSecret      string
	jwtTTL         time.Duration
	uploadDir      string
	uploadMaxBytes int64
}

// NewWalletHandlers creates a new instance of WalletHandlers.
func NewWalletHandlers(service *app.Service, jwtSecret string, jwtTTL time.Duration, uploadDir string, uploadMaxBytes int64) *WalletHandlers {
	return &WalletHandlers{
		service:        service,
		jwtSecret:      jwtSecret,
		jwtTTL:         jwtTTL,
		uploadDir:      uploadDir,
		uploadMaxBytes: uploadMaxBytes,
	}
}

// authResponse is returned by login and register. The token is additive to
// the original contract; clients that only read `user` keep working.
type authResponse struct {
	User  domain.Profile `json:"user"`
	Token string         `json:"token,omitempty"`
}

func (h *WalletHandlers) sessionToken(userID string) string {
	token, err := IssueSessionToken(h.jwtSecret, userID, h.jwtTTL)
	if err != nil {
		log.Printf("level=error component=api msg=\"session token issue failed\" user_id=%s err=%v", userID, err)
		return ""
	}
	return token
}

// LoginHandler verifies phone/PIN credentials.
func (h *WalletHandlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, malformedBodyMessage)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeMessage(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	user, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user.Profile(), Token: h.sessionToken(user.ID)})
}

// RegisterHandler creates a new wallet account.
func (h *WalletHandlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, malformedBodyMessage)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeMessage(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user.Profile(), Token: h.sessionToken(user.ID)})
}

// CheckUserHandler reports whether a phone number is registered.
func (h *WalletHandlers) CheckUserHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, malformedBodyMessage)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeMessage(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	exists, err := h.service.CheckUser(r.Context(), req.PhoneNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// MeHandler returns the profile of the authenticated session user.
func (h *WalletHandlers) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetSessionUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}

// GetUserHandler returns a user's public profile by id.
func (h *WalletHandlers) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}

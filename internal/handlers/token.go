package handlers

import (
	"errors"
	"net/http"

	"github.com/russMightyMonk/rumi-analytica/internal/auth"
	"github.com/russMightyMonk/rumi-analytica/internal/metrics"
)

// TokenResponse is the successful login response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token handles the login endpoint. Credentials arrive as form fields
// (OAuth2 password-form shape); a generic 401 covers every failure so
// usernames cannot be enumerated.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.auth.IssueToken(username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			h.Error(w, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		h.logger.Error().Err(err).Msg("token issuance failed")
		h.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.JSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/russMightyMonk/rumi-analytica/internal/agent"
	"github.com/russMightyMonk/rumi-analytica/internal/auth"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	logger   zerolog.Logger
	auth     *auth.Service
	executor agent.Executor
	appName  string
}

// NewHandler creates a Handler with the given dependencies. appName is
// the agent application identifier used in session keys.
func NewHandler(logger zerolog.Logger, authSvc *auth.Service, executor agent.Executor, appName string) *Handler {
	return &Handler{
		logger:   logger,
		auth:     authSvc,
		executor: executor,
		appName:  appName,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

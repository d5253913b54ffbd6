package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/russMightyMonk/rumi-analytica/internal/agent"
	"github.com/russMightyMonk/rumi-analytica/internal/api/middleware"
	"github.com/russMightyMonk/rumi-analytica/internal/metrics"
)

// FallbackAnswer is returned with HTTP 200 when the agent produces no
// final answer. The chat endpoint never returns an empty response; this
// mirrors the backend's always-answer-something contract.
const FallbackAnswer = "I wasn't able to come up with an answer to that. Please try rephrasing your question."

// ChatRequest is the chat endpoint request body.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the chat endpoint response body.
type ChatResponse struct {
	Response string `json:"response"`
}

// Chat forwards the authenticated caller's message to the agent
// collaborator and returns the final answer.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	sess := agent.SessionFor(h.appName, identity.Username)

	start := time.Now()
	answer, err := h.executor.Execute(r.Context(), sess, req.Message)
	metrics.AgentLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		h.writeChatError(w, sess, err)
		return
	}

	if answer == "" {
		// A final event with no text degrades to the fallback too.
		metrics.ChatRequests.WithLabelValues("fallback").Inc()
		answer = FallbackAnswer
	} else {
		metrics.ChatRequests.WithLabelValues("answered").Inc()
	}
	h.JSON(w, http.StatusOK, ChatResponse{Response: answer})
}

func (h *Handler) writeChatError(w http.ResponseWriter, sess agent.Session, err error) {
	var upstream *agent.UpstreamError

	switch {
	case errors.Is(err, agent.ErrNoFinalResponse):
		// Deliberate: a missing final answer is not surfaced as an error.
		metrics.ChatRequests.WithLabelValues("fallback").Inc()
		h.logger.Warn().
			Str("session_id", sess.SessionID).
			Msg("agent produced no final response, returning fallback answer")
		h.JSON(w, http.StatusOK, ChatResponse{Response: FallbackAnswer})

	case errors.As(err, &upstream):
		metrics.ChatRequests.WithLabelValues("upstream_error").Inc()
		h.logger.Error().
			Int("upstream_status", upstream.StatusCode).
			Str("session_id", sess.SessionID).
			Msg("agent upstream error")
		h.Error(w, http.StatusBadGateway, "agent upstream error: "+upstream.Body)

	case errors.Is(err, context.DeadlineExceeded):
		metrics.ChatRequests.WithLabelValues("timeout").Inc()
		h.logger.Error().
			Str("session_id", sess.SessionID).
			Msg("agent request timed out")
		h.Error(w, http.StatusGatewayTimeout, "agent request timed out")

	default:
		metrics.ChatRequests.WithLabelValues("upstream_error").Inc()
		h.logger.Error().
			Err(err).
			Str("session_id", sess.SessionID).
			Msg("agent request failed")
		h.Error(w, http.StatusBadGateway, "error communicating with the agent")
	}
}

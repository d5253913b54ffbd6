// Package agent adapts chat requests onto the external agent
// collaborator. Two executors exist: a local in-process runner and a
// remote SSE streaming client. Both resolve one message to exactly one
// final answer or an error.
package agent

import (
	"context"
	"errors"
	"fmt"
)

// Session is the conversational context key shared with the collaborator.
// The collaborator owns the state behind it; this service only holds the
// key.
type Session struct {
	AppName   string
	UserID    string
	SessionID string
}

// SessionFor derives the deterministic session key for a user, so
// repeated calls by the same identity reuse the same conversation.
func SessionFor(appName, userID string) Session {
	return Session{
		AppName:   appName,
		UserID:    userID,
		SessionID: userID + "_default_session",
	}
}

// key is a flat form used for per-session locking.
func (s Session) key() string {
	return s.AppName + "/" + s.UserID + "/" + s.SessionID
}

// ErrNoFinalResponse means the collaborator's event sequence or stream
// ended without producing a final answer.
var ErrNoFinalResponse = errors.New("agent produced no final response")

// UpstreamError is a non-success response from the remote collaborator.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("agent upstream returned status %d: %s", e.StatusCode, e.Body)
}

// Executor submits one chat message under a session and returns the
// collaborator's final answer.
type Executor interface {
	Execute(ctx context.Context, sess Session, message string) (string, error)
}

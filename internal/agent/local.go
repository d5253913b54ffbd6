package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Event is one element of a runner's output sequence. At most one event
// per turn is final.
type Event struct {
	Author string
	Text   string
	Final  bool
}

// Runner executes one conversational turn in-process, producing a lazy
// event sequence. The channel must be closed when the turn completes.
type Runner interface {
	Run(ctx context.Context, sess Session, message string) (<-chan Event, error)
}

// SessionStore tracks which sessions exist at the collaborator boundary.
type SessionStore interface {
	Has(ctx context.Context, sess Session) (bool, error)
	Create(ctx context.Context, sess Session) error
}

// InMemorySessionStore is the default session store for the local
// transport.
type InMemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]struct{}
}

// NewInMemorySessionStore creates an empty session store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]struct{})}
}

// Has reports whether the session exists.
func (s *InMemorySessionStore) Has(ctx context.Context, sess Session) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sess.key()]
	return ok, nil
}

// Create registers the session. Creating an existing session is a no-op.
func (s *InMemorySessionStore) Create(ctx context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.key()] = struct{}{}
	return nil
}

// LocalExecutor runs turns against an in-process Runner.
type LocalExecutor struct {
	runner   Runner
	sessions SessionStore
	timeout  time.Duration

	// Serializes get-or-create per session key so concurrent first calls
	// cannot create divergent sessions.
	group singleflight.Group
}

// NewLocalExecutor creates an executor over the given runner and session
// store.
func NewLocalExecutor(runner Runner, sessions SessionStore, timeout time.Duration) *LocalExecutor {
	return &LocalExecutor{
		runner:   runner,
		sessions: sessions,
		timeout:  timeout,
	}
}

// Execute ensures the session exists, runs the turn, and returns the
// text of the first final event. A sequence that completes without a
// final event yields ErrNoFinalResponse.
func (e *LocalExecutor) Execute(ctx context.Context, sess Session, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.ensureSession(ctx, sess); err != nil {
		return "", fmt.Errorf("ensure session: %w", err)
	}

	events, err := e.runner.Run(ctx, sess, message)
	if err != nil {
		return "", fmt.Errorf("run agent: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return "", ErrNoFinalResponse
			}
			if ev.Final {
				return ev.Text, nil
			}
		}
	}
}

func (e *LocalExecutor) ensureSession(ctx context.Context, sess Session) error {
	_, err, _ := e.group.Do(sess.key(), func() (interface{}, error) {
		ok, err := e.sessions.Has(ctx, sess)
		if err != nil {
			return nil, err
		}
		if ok {
			return nil, nil
		}
		return nil, e.sessions.Create(ctx, sess)
	})
	return err
}

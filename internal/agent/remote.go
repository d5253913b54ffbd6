package agent

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	// maxUpstreamErrorBody caps how much of an upstream error body is
	// carried into the error value.
	maxUpstreamErrorBody = 4 * 1024

	// maxFrameSize bounds a single SSE frame line.
	maxFrameSize = 1024 * 1024
)

// RemoteExecutor talks to a remote collaborator exposing the ADK-style
// HTTP API: session get/create endpoints plus a streaming /run_sse
// endpoint emitting text/event-stream frames.
type RemoteExecutor struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  zerolog.Logger

	group singleflight.Group
}

// NewRemoteExecutor creates an executor for the collaborator at baseURL.
func NewRemoteExecutor(baseURL string, timeout time.Duration, logger zerolog.Logger) *RemoteExecutor {
	return &RemoteExecutor{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
		logger:  logger,
	}
}

type messagePart struct {
	Text string `json:"text"`
}

type messageContent struct {
	Role  string        `json:"role"`
	Parts []messagePart `json:"parts"`
}

type runRequest struct {
	AppName    string         `json:"app_name"`
	UserID     string         `json:"user_id"`
	SessionID  string         `json:"session_id"`
	NewMessage messageContent `json:"new_message"`
	Streaming  bool           `json:"streaming"`
}

// sseFrame is one data: line of the collaborator's event stream. Only
// the fields needed to detect the terminal frame and pull its answer are
// decoded.
type sseFrame struct {
	State        string          `json:"state"`
	TurnComplete bool            `json:"turn_complete"`
	Content      *messageContent `json:"content"`
	Response     *struct {
		Output string `json:"output"`
	} `json:"response"`
}

// final reports whether this frame concludes the turn.
func (f *sseFrame) final() bool {
	return f.State == "DONE" || f.TurnComplete
}

// answer extracts the frame's natural-language answer.
func (f *sseFrame) answer() string {
	if f.Response != nil && f.Response.Output != "" {
		return f.Response.Output
	}
	if f.Content != nil {
		var b strings.Builder
		for _, p := range f.Content.Parts {
			b.WriteString(p.Text)
		}
		return b.String()
	}
	return ""
}

// Execute ensures the session exists upstream, opens the event stream,
// and scans frames until the terminal one. The stream is abandoned as
// soon as the final answer is extracted.
func (e *RemoteExecutor) Execute(ctx context.Context, sess Session, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.ensureSession(ctx, sess); err != nil {
		return "", fmt.Errorf("ensure session: %w", err)
	}

	payload, err := json.Marshal(runRequest{
		AppName:   sess.AppName,
		UserID:    sess.UserID,
		SessionID: sess.SessionID,
		NewMessage: messageContent{
			Role:  "user",
			Parts: []messagePart{{Text: message}},
		},
		Streaming: true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/run_sse", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("open agent stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamErrorBody))
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		raw := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if raw == "" {
			continue
		}
		var frame sseFrame
		if err := json.Unmarshal([]byte(raw), &frame); err != nil {
			// Partial or malformed frames are skipped, not fatal.
			e.logger.Debug().Err(err).Msg("skipping malformed SSE frame")
			continue
		}
		if frame.final() {
			return frame.answer(), nil
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("read agent stream: %w", err)
	}
	return "", ErrNoFinalResponse
}

// ensureSession performs an idempotent get-or-create against the
// collaborator's session API, serialized per session key.
func (e *RemoteExecutor) ensureSession(ctx context.Context, sess Session) error {
	_, err, _ := e.group.Do(sess.key(), func() (interface{}, error) {
		url := fmt.Sprintf("%s/apps/%s/users/%s/sessions/%s",
			e.baseURL, sess.AppName, sess.UserID, sess.SessionID)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := e.client.Do(req)
		if err != nil {
			return nil, err
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, e.createSession(ctx, url)
		default:
			return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: "session lookup failed"}
		}
	})
	return err
}

func (e *RemoteExecutor) createSession(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader("{}"))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamErrorBody))
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

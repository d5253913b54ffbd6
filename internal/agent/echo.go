package agent

import "context"

// EchoRunner is the built-in test runner for the local transport. It
// answers every message by echoing it back, mirroring the echo tool the
// analytics agent ships for smoke-testing the chat path without a model
// behind it.
type EchoRunner struct{}

// Run emits a single final event echoing the message.
func (EchoRunner) Run(ctx context.Context, sess Session, message string) (<-chan Event, error) {
	events := make(chan Event, 1)
	events <- Event{
		Author: sess.AppName,
		Text:   "Echo from Rumi-Analytica: " + message,
		Final:  true,
	}
	close(events)
	return events, nil
}

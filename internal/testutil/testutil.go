// Package testutil provides shared test helpers for providers, links and logging.
package testutil

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/url"
	"sync"

	"github.com/starford/vibecard/internal/models"
)

// Call records one Generate invocation.
type Call struct {
	Vibe      models.Vibe
	Recipient string
}

// RecordingProvider answers with a fixed message and remembers its calls.
type RecordingProvider struct {
	Message string
	// OnGenerate, if set, runs inside Generate before it returns.
	OnGenerate func()

	mu    sync.Mutex
	calls []Call
}

// Generate records the call and returns p.Message.
func (p *RecordingProvider) Generate(_ context.Context, vibe models.Vibe, recipient string) string {
	p.mu.Lock()
	p.calls = append(p.calls, Call{Vibe: vibe, Recipient: recipient})
	p.mu.Unlock()
	if p.OnGenerate != nil {
		p.OnGenerate()
	}
	return p.Message
}

// Calls returns the recorded calls.
func (p *RecordingProvider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// Payload returns the d parameter value for the given pipe-joined payload,
// already query-escaped.
func Payload(raw string) string {
	return url.QueryEscape(base64.StdEncoding.EncodeToString([]byte(raw)))
}

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

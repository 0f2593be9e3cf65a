// Package message supplies card messages when the sender leaves theirs blank.
package message

import (
	"context"

	"github.com/starford/vibecard/internal/models"
)

// Fallback is returned whenever generation fails.
const Fallback = "The stars celebrate you today, as they should every day."

// Provider returns a short message themed to vibe for recipient.
// Implementations absorb their own failures and never return an empty
// string; callers do not handle errors from a Provider.
type Provider interface {
	Generate(ctx context.Context, vibe models.Vibe, recipient string) string
}

// Func adapts an ordinary function to Provider.
type Func func(ctx context.Context, vibe models.Vibe, recipient string) string

// Generate calls f.
func (f Func) Generate(ctx context.Context, vibe models.Vibe, recipient string) string {
	return f(ctx, vibe, recipient)
}

// Static always answers with the same message. It backs offline mode.
type Static struct {
	Message string
}

// Generate returns s.Message, or Fallback when it is empty.
func (s Static) Generate(context.Context, models.Vibe, string) string {
	if s.Message == "" {
		return Fallback
	}
	return s.Message
}

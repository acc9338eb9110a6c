package ai

import (
	"context"
)

// Assistant defines the contract for the free-form conversational fallback.
// This interface allows for swapping different backends (Gemini, OpenAI, a remote
// chat endpoint) without touching the dialogue controller.
type Assistant interface {
	// Reply answers the pending user message given the full conversation so far.
	// The returned string is user-facing text; any error means the caller should
	// degrade to its fixed apology turn.
	Reply(ctx context.Context, conv Conversation) (string, error)
}

// README: Free-form assistant fallback; meters usage and never surfaces an error.
package dialogue

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ferrychat/internal/ai"
	"ferrychat/internal/modules/aiusage"
)

const (
	apologyText = "Having trouble right now. Please try again!"
	limitText   = "I've reached this month's assistant limit. Let's use the guided search instead!"
)

// UsageMeter deducts one fallback call from a tenant's monthly allowance.
type UsageMeter interface {
	UseToken(ctx context.Context, tenantID int64) error
}

// Fallback wraps an ai.Assistant with monthly usage metering. It degrades to a
// fixed apology instead of returning an error, so the conversation always gets
// a reply.
type Fallback struct {
	assistant ai.Assistant
	usage     UsageMeter
	log       *zap.Logger
}

func NewFallback(assistant ai.Assistant, usage UsageMeter, log *zap.Logger) *Fallback {
	return &Fallback{assistant: assistant, usage: usage, log: log}
}

func (f *Fallback) Ask(ctx context.Context, tenantID int64, conv ai.Conversation) string {
	if err := f.usage.UseToken(ctx, tenantID); err != nil {
		if errors.Is(err, aiusage.ErrInsufficientTokens) {
			return limitText
		}
		// Metering infrastructure failure must not block the conversation.
		f.log.Warn("usage metering unavailable", zap.Int64("tenant_id", tenantID), zap.Error(err))
	}
	reply, err := f.assistant.Reply(ctx, conv)
	if err != nil || reply == "" {
		f.log.Warn("assistant reply failed", zap.Int64("tenant_id", tenantID), zap.Error(err))
		return apologyText
	}
	return reply
}

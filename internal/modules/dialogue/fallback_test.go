package dialogue

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"ferrychat/internal/ai"
	"ferrychat/internal/modules/aiusage"
)

type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Reply(ctx context.Context, conv ai.Conversation) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeMeter struct {
	err error
}

func (f *fakeMeter) UseToken(ctx context.Context, tenantID int64) error {
	return f.err
}

func TestFallbackAsk(t *testing.T) {
	cases := []struct {
		name         string
		meterErr     error
		reply        string
		providerErr  error
		want         string
		wantProvider int
	}{
		{
			name:         "success",
			reply:        "The 8:30 trip is usually quieter.",
			want:         "The 8:30 trip is usually quieter.",
			wantProvider: 1,
		},
		{
			name:         "quota exhausted skips provider",
			meterErr:     aiusage.ErrInsufficientTokens,
			want:         limitText,
			wantProvider: 0,
		},
		{
			name:         "meter outage does not block",
			meterErr:     errors.New("db down"),
			reply:        "Sure!",
			want:         "Sure!",
			wantProvider: 1,
		},
		{
			name:         "provider failure degrades to apology",
			providerErr:  errors.New("timeout"),
			want:         apologyText,
			wantProvider: 1,
		},
		{
			name:         "empty reply degrades to apology",
			reply:        "",
			want:         apologyText,
			wantProvider: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &fakeProvider{reply: tc.reply, err: tc.providerErr}
			fb := NewFallback(provider, &fakeMeter{err: tc.meterErr}, zap.NewNop())

			got := fb.Ask(context.Background(), 7, ai.Conversation{
				Messages: []ai.Message{{Role: "user", Content: "hi"}},
			})
			if got != tc.want {
				t.Errorf("Ask() = %q, want %q", got, tc.want)
			}
			if provider.calls != tc.wantProvider {
				t.Errorf("provider calls = %d, want %d", provider.calls, tc.wantProvider)
			}
		})
	}
}

// README: Agent personalization; fetches per-tenant display name and welcome message.
package agentcfg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultDisplayName = "AyahAI"
	defaultWelcome     = "Hi! I'm AyahAI, your ferry booking assistant. 🛳️"
	agentType          = "trip-search"
)

// Config is the optional per-tenant personalization.
type Config struct {
	DisplayName    string `json:"displayName"`
	WelcomeMessage string `json:"welcomeMessage"`
}

type Service struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewService(baseURL string, log *zap.Logger) *Service {
	return &Service{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// Load fetches the tenant's agent config. Any failure returns the defaults;
// personalization is never worth a visible error.
func (s *Service) Load(ctx context.Context, tenantID int64) Config {
	cfg := Config{DisplayName: DefaultDisplayName, WelcomeMessage: defaultWelcome}

	fetched, err := s.fetch(ctx, tenantID)
	if err != nil {
		s.log.Debug("agent config unavailable, using defaults", zap.Int64("tenant", tenantID), zap.Error(err))
		return cfg
	}
	if fetched.DisplayName != "" {
		cfg.DisplayName = fetched.DisplayName
	}
	if fetched.WelcomeMessage != "" {
		cfg.WelcomeMessage = fetched.WelcomeMessage
	}
	return cfg
}

func (s *Service) fetch(ctx context.Context, tenantID int64) (Config, error) {
	url := fmt.Sprintf("%s?tenantId=%d&type=%s", s.baseURL, tenantID, agentType)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Config{}, fmt.Errorf("agent config: build request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return Config{}, fmt.Errorf("agent config: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Config{}, fmt.Errorf("agent config: unexpected status %s", resp.Status)
	}

	// The upstream wraps the config in one or two envelope levels depending on
	// the deployment: {config} or {data:{config}}.
	var envelope struct {
		Config *Config `json:"config"`
		Data   *struct {
			Config *Config `json:"config"`
		} `json:"data"`
	}
	var cfg Config
	body := json.NewDecoder(resp.Body)
	if err := body.Decode(&envelope); err != nil {
		return Config{}, fmt.Errorf("agent config: unmarshal response: %w", err)
	}
	switch {
	case envelope.Config != nil:
		cfg = *envelope.Config
	case envelope.Data != nil && envelope.Data.Config != nil:
		cfg = *envelope.Data.Config
	}
	return cfg, nil
}

// TrimWelcome drops welcome lines that end with a question mark; the guided
// flow asks its own first question. Falls back to the first line when the
// filter would erase everything.
func TrimWelcome(welcome string) string {
	lines := strings.Split(welcome, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasSuffix(strings.TrimSpace(line), "?") {
			continue
		}
		kept = append(kept, line)
	}
	out := strings.TrimSpace(strings.Join(kept, "\n"))
	if out == "" {
		return lines[0]
	}
	return out
}

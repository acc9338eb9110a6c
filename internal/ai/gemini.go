package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements Assistant using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")
	model.SetTemperature(0.4)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// Reply answers the pending user message in a single GenerateContent call,
// with the system prompt, booking context, and history folded into the prompt.
// Combining everything in one prompt keeps the per-request context binding
// simple; SystemInstruction is not needed for this conversation length.
func (p *GeminiProvider) Reply(ctx context.Context, conv Conversation) (string, error) {
	prompt := buildPrompt(conv)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	reply := strings.TrimSpace(out.String())
	if reply == "" {
		return "", fmt.Errorf("gemini returned empty text parts")
	}
	return reply, nil
}

// buildPrompt constructs the instructions for the AI.
func buildPrompt(conv Conversation) string {
	var b strings.Builder

	b.WriteString(`Role: You are a friendly ferry booking assistant for passengers in the Philippines.
You help travelers find ferry trips between ports: origins, destinations, schedules, fares, passengers and vehicles.

RULES:
1. Answer the traveler's LAST message. Use the conversation history for context.
2. If a booking context line is present, treat it as confirmed facts about the trip being planned. Never contradict it.
3. Keep replies short and conversational (2-4 sentences). No markdown headings, no lists unless asked.
4. If the traveler asks something you cannot know (live schedules, exact fares you were not given), say so and suggest starting a guided search.
5. Never invent port names, trip times, or prices.
`)

	if conv.ContextSummary != "" {
		b.WriteString("\nBooking context: ")
		b.WriteString(conv.ContextSummary)
		b.WriteString("\n")
	}

	b.WriteString("\nConversation:\n")
	for _, m := range conv.Messages {
		role := "Traveler"
		if m.Role == "assistant" {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	b.WriteString("Assistant:")
	return b.String()
}

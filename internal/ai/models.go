package ai

// Message is a single dialogue entry as seen by a provider.
type Message struct {
	// Role is "user" or "assistant".
	Role string `json:"role"`

	Content string `json:"content"`
}

// Conversation carries everything a provider needs to answer the pending
// user message, which is always the last entry of Messages.
type Conversation struct {
	Messages []Message `json:"messages"`

	// Context holds the structured booking hints accumulated so far
	// (origin, destination, date, passenger count). Absent fields are omitted.
	Context map[string]string `json:"context,omitempty"`

	// ContextSummary is the machine-readable one-liner derived from Context,
	// e.g. "[CONTEXT: Origin: Batangas, Passengers: 2]". Empty when Context is.
	ContextSummary string `json:"contextSummary,omitempty"`
}

// LastUserMessage returns the content of the trailing user entry, or "".
func (c Conversation) LastUserMessage() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == "user" {
			return c.Messages[i].Content
		}
	}
	return ""
}

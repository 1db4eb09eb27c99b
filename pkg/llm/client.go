// Package llm abstracts the chat-completion providers behind a single
// Client interface. Providers are plain request/response: the tool-use
// protocol lives entirely in the message text, so a client only needs to
// ship an ordered message list and return the assistant's literal reply.
package llm

import (
	"context"

	"github.com/pkg/errors"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role    string
	Content string
}

// Client sends the full message history plus a system prompt to a model and
// returns the assistant's raw text reply. Requests are made at temperature 0
// with a bounded output-token limit.
type Client interface {
	SendMessage(ctx context.Context, system string, messages []Message) (string, error)
}

// Providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// NewClient builds a client for the configured provider. Missing credentials
// are configuration errors reported here, before any search turn runs.
func NewClient(config Config) (Client, error) {
	switch config.Provider {
	case "", ProviderAnthropic:
		return NewAnthropicClient(config)
	case ProviderOpenAI:
		return NewOpenAIClient(config)
	default:
		return nil, errors.Errorf("unsupported provider %q", config.Provider)
	}
}

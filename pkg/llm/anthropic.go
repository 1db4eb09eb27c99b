package llm

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/warpgrep/warpgrep/pkg/logger"
)

// AnthropicClient implements Client using Anthropic's Messages API.
type AnthropicClient struct {
	client anthropic.Client
	config Config
}

// NewAnthropicClient builds the client, failing fast when the credential is
// absent so no turns are consumed on a misconfigured environment.
func NewAnthropicClient(config Config) (*AnthropicClient, error) {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is not set")
	}
	if config.Model == "" {
		config.Model = string(anthropic.ModelClaude3_5HaikuLatest)
	}
	return &AnthropicClient{
		client: anthropic.NewClient(),
		config: config,
	}, nil
}

// SendMessage sends the history at temperature 0 and returns the
// concatenated text blocks of the reply. Rate limits and server errors are
// retried with backoff before being reported as a transport failure.
func (c *AnthropicClient) SendMessage(ctx context.Context, system string, messages []Message) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   int64(c.config.maxTokens()),
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: toAnthropicMessages(messages),
	}

	var response *anthropic.Message
	err := retry.Do(
		func() error {
			resp, err := c.client.Messages.New(ctx, params)
			if err != nil {
				return err
			}
			response = resp
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.config.retryAttempts()),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isRetryableAnthropicError),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).WithField("attempt", n+1).Debug("retrying anthropic request")
		}),
	)
	if err != nil {
		return "", errors.Wrap(err, "anthropic request failed")
	}

	var sb strings.Builder
	for _, block := range response.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String(), nil
}

func toAnthropicMessages(messages []Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return params
}

func isRetryableAnthropicError(err error) bool {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == 429 || apierr.StatusCode >= 500
	}
	return false
}

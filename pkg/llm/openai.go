package llm

import (
	"context"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/warpgrep/warpgrep/pkg/logger"
)

// OpenAIClient implements Client using the chat completions API.
type OpenAIClient struct {
	client *openai.Client
	config Config
}

// NewOpenAIClient builds the client, failing fast when the credential is absent.
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client: openai.NewClient(key),
		config: config,
	}, nil
}

// SendMessage sends the history at temperature 0 and returns the text of the
// first choice.
func (c *OpenAIClient) SendMessage(ctx context.Context, system string, messages []Message) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	chatMessages = append(chatMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, msg := range messages {
		role := openai.ChatMessageRoleUser
		if msg.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	request := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    chatMessages,
		MaxTokens:   c.config.maxTokens(),
		Temperature: 0,
	}

	var response openai.ChatCompletionResponse
	err := retry.Do(
		func() error {
			resp, err := c.client.CreateChatCompletion(ctx, request)
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
		retry.RetryIf(isRetryableOpenAIError),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).WithField("attempt", n+1).Debug("retrying openai request")
		}),
	)
	if err != nil {
		return "", errors.Wrap(err, "openai request failed")
	}

	if len(response.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}
	return response.Choices[0].Message.Content, nil
}

func isRetryableOpenAIError(err error) bool {
	var apierr *openai.APIError
	if errors.As(err, &apierr) {
		return apierr.HTTPStatusCode == 429 || apierr.HTTPStatusCode >= 500
	}
	return false
}

package llm

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_MissingAnthropicCredential(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewClient(Config{Provider: ProviderAnthropic})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY is not set")
}

func TestNewClient_MissingOpenAICredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewClient(Config{Provider: ProviderOpenAI})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY is not set")
}

func TestNewClient_DefaultsToAnthropic(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, client)
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "cohere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported provider "cohere"`)
}

func TestNewAnthropicClient_DefaultModel(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	client, err := NewAnthropicClient(Config{})
	require.NoError(t, err)
	assert.NotEmpty(t, client.config.Model)
}

func TestConfigFromViper(t *testing.T) {
	viper.Set("provider", "openai")
	viper.Set("model", "gpt-4o")
	viper.Set("max_tokens", 2048)
	viper.Set("retry_attempts", 5)
	t.Cleanup(func() {
		viper.Set("provider", nil)
		viper.Set("model", nil)
		viper.Set("max_tokens", nil)
		viper.Set("retry_attempts", nil)
	})

	config := ConfigFromViper()
	assert.Equal(t, "openai", config.Provider)
	assert.Equal(t, "gpt-4o", config.Model)
	assert.Equal(t, 2048, config.MaxTokens)
	assert.Equal(t, 5, config.RetryAttempts)
}

func TestConfigDefaults(t *testing.T) {
	config := Config{}
	assert.Equal(t, defaultMaxTokens, config.maxTokens())
	assert.Equal(t, uint(defaultRetryAttempts), config.retryAttempts())

	config = Config{MaxTokens: 1024, RetryAttempts: 2}
	assert.Equal(t, 1024, config.maxTokens())
	assert.Equal(t, uint(2), config.retryAttempts())
}

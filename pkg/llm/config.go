package llm

import (
	"github.com/spf13/viper"
)

// Config holds provider selection and request bounds.
type Config struct {
	Provider      string
	Model         string
	MaxTokens     int
	RetryAttempts int
}

const (
	defaultMaxTokens     = 4096
	defaultRetryAttempts = 3
)

// ConfigFromViper reads the llm configuration from viper, leaving provider
// defaults (model choice) to the individual clients.
func ConfigFromViper() Config {
	return Config{
		Provider:      viper.GetString("provider"),
		Model:         viper.GetString("model"),
		MaxTokens:     viper.GetInt("max_tokens"),
		RetryAttempts: viper.GetInt("retry_attempts"),
	}
}

func (c Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return defaultMaxTokens
}

func (c Config) retryAttempts() uint {
	if c.RetryAttempts > 0 {
		return uint(c.RetryAttempts)
	}
	return defaultRetryAttempts
}

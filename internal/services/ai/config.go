// File: internal/services/ai/config.go
package ai

import (
	"fmt"
)

type Config struct {
	APIKey  string
	BaseURL string

	// ChatModel is used for all three analysis paths.
	ChatModel string

	Temperature float32
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.ChatModel == "" {
		return fmt.Errorf("chat model is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		ChatModel:   "gpt-4o-mini",
		Temperature: 0.7,
	}
}

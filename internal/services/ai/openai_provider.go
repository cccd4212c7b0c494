// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const companionSystemPrompt = "You are a friendly, empathetic chat companion. " +
	"Speak in a casual, warm tone, as if you were a friend. " +
	"Keep responses concise, helpful, and engaging. Ask follow-up questions when appropriate."

const analystSystemPrompt = "You are a professional data analyst. " +
	"You will analyze CSV datasets and answer user questions clearly and accurately."

type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Chat returns a conversational reply. An empty prompt still produces a
// greeting instead of an error, matching the "new empty conversation" flow.
func (p *OpenAIProvider) Chat(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		prompt = "Hi!"
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: companionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.config.Temperature,
	})
	if err != nil {
		return "", NewProviderError("chat", "failed to create completion", err)
	}

	return firstChoice(resp), nil
}

// AskAboutImage sends the image inline as a base64 data URL.
func (p *OpenAIProvider) AskAboutImage(ctx context.Context, imageData []byte, question, mimeType string) (string, error) {
	if len(imageData) == 0 {
		return "", NewValidationError("image", "image bytes are empty")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: question},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", NewProviderError("image", "failed to create completion", err)
	}

	return firstChoice(resp), nil
}

// AskAboutCSV embeds the dataset summary as prompt context.
func (p *OpenAIProvider) AskAboutCSV(ctx context.Context, summary, question string) (string, error) {
	prompt := fmt.Sprintf("Here is a summary of the CSV dataset:\n\n%s\n\nNow, answer this question:\n%s",
		summary, question)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analystSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", NewProviderError("csv", "failed to create completion", err)
	}

	return firstChoice(resp), nil
}

func firstChoice(resp openai.ChatCompletionResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}

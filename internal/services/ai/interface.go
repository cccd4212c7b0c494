// File: internal/services/ai/interface.go
package ai

import "context"

// Provider is the language-model surface the chat orchestration needs:
// one conversational path plus one analysis path per coarse file type.
type Provider interface {
	// Chat returns a plain conversational reply to the prompt.
	Chat(ctx context.Context, prompt string) (string, error)
	// AskAboutImage answers a question about raw image bytes.
	AskAboutImage(ctx context.Context, imageData []byte, question, mimeType string) (string, error)
	// AskAboutCSV answers a question given a precomputed dataset summary.
	AskAboutCSV(ctx context.Context, summary, question string) (string, error)
}

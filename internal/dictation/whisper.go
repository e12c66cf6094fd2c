package dictation

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const transcribeTimeout = 180 * time.Second

// WhisperTranscriber implements Transcriber over the OpenAI audio API.
type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

// NewWhisperTranscriber returns nil when no API key is configured, which
// the controller reports as an unavailable capability.
func NewWhisperTranscriber(apiKey, model string) *WhisperTranscriber {
	if apiKey == "" {
		return nil
	}
	return &WhisperTranscriber{client: openai.NewClient(apiKey), model: model}
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, transcribeTimeout)
	defer cancel()

	tr, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		Reader:   audio,
		FilePath: filename,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	text := strings.TrimSpace(tr.Text)
	if text == "" {
		return "", fmt.Errorf("empty transcription")
	}
	return text, nil
}

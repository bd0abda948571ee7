package whisper

import (
	"bytes"
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"voicebot/internal/domain"
	"voicebot/internal/infra"
)

// Client talks to a Whisper-compatible transcription endpoint. The base
// URL is configurable so a local inference server can stand in for the
// hosted API; the model name selects the recognition model size.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Recognize submits normalized WAV audio. An empty language leaves
// detection to the backend. Segments come back in utterance order.
func (c *Client) Recognize(ctx context.Context, wav []byte, language string) (domain.Recognition, error) {
	req := openai.AudioRequest{
		Model:    c.model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(wav),
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: language,
	}

	var resp openai.AudioResponse
	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		var err error
		resp, err = c.api.CreateTranscription(ctx, req)
		if err != nil {
			return fmt.Errorf("creating transcription: %w", err)
		}
		return nil
	})
	if retryErr != nil {
		return domain.Recognition{}, retryErr
	}

	segments := make([]string, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, seg.Text)
	}
	if len(segments) == 0 && resp.Text != "" {
		segments = append(segments, resp.Text)
	}

	return domain.Recognition{Segments: segments, Language: resp.Language}, nil
}

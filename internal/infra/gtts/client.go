package gtts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"voicebot/internal/infra"
)

const defaultBaseURL = "https://translate.google.com/translate_tts"

// maxChunkLen is the longest text fragment the endpoint accepts per call.
const maxChunkLen = 200

// Client fetches synthesized speech from the Google Translate TTS
// endpoint. Long input is split at whitespace into chunks and the MP3
// payloads are concatenated, which the format tolerates.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	var audio bytes.Buffer
	for _, chunk := range splitChunks(text, maxChunkLen) {
		part, err := c.fetchChunk(ctx, chunk, language)
		if err != nil {
			return nil, err
		}
		audio.Write(part)
	}
	return audio.Bytes(), nil
}

func (c *Client) fetchChunk(ctx context.Context, chunk, language string) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", language)
	query.Set("q", chunk)
	query.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	var part []byte
	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fetching speech: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return fmt.Errorf("tts error %d (retryable)", resp.StatusCode)
			}
			return fmt.Errorf("tts error %d", resp.StatusCode)
		}

		part, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading audio: %w", err)
		}
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return part, nil
}

// splitChunks cuts text into fragments of at most limit runes, preferring
// whitespace boundaries so words stay intact.
func splitChunks(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > 0; i-- {
			if runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		for cut < len(runes) && (runes[cut] == ' ' || runes[cut] == '\n' || runes[cut] == '\t') {
			cut++
		}
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

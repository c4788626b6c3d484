// Package oracle implements the chat and embedding clients against an
// OpenAI-compatible HTTP API.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/commitcritic/commitcritic/internal/contract"
)

// Sentinel errors surfaced to callers.
var (
	// ErrEmptyResponse means the model returned no choices or empty content.
	ErrEmptyResponse = errors.New("oracle returned an empty response")

	// ErrMissingAPIKey means no API key was configured.
	ErrMissingAPIKey = errors.New("missing OPENAI_API_KEY")
)

const defaultMaxRetries = 3

// Client talks to an OpenAI-compatible API over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	chatModel  string
	embedModel string
	httpClient *http.Client
	maxRetries int
}

var (
	_ contract.ChatClient      = &Client{} // Compile-time check
	_ contract.EmbeddingClient = &Client{} // Compile-time check
)

// NewClient builds a client from validated configuration.
func NewClient(cfg *contract.Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		chatModel:  cfg.ChatModel,
		embedModel: cfg.EmbedModel,
		httpClient: &http.Client{Timeout: cfg.OracleTimeout},
		maxRetries: defaultMaxRetries,
	}, nil
}

// httpError is a non-2xx API response.
type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("oracle http %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether the request is worth another attempt.
func retryable(err error) bool {
	var herr *httpError
	if errors.As(err, &herr) {
		return herr.StatusCode == http.StatusTooManyRequests || herr.StatusCode >= 500
	}
	// Network-level errors are retryable, everything else is not.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) doOnce(ctx context.Context, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, path string, body any, out any) error {
	backoff := time.Second

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("oracle decode error: %w", uErr)
			}
			return nil
		}
		if attempt == c.maxRetries || !retryable(err) {
			return err
		}

		contract.LogWarn(fmt.Sprintf("oracle request to %s retrying (attempt %d)", path, attempt+1), err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, system, user string, format *responseFormat) (string, error) {
	req := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: format,
	}

	var resp chatResponse
	if err := c.do(ctx, "/v1/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteJSON implements the ChatClient interface.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, system, user, &responseFormat{Type: "json_object"})
}

// CompleteText implements the ChatClient interface.
func (c *Client) CompleteText(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, system, user, nil)
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed implements the EmbeddingClient interface. Each vector carries the
// API-reported input index; callers are responsible for reordering.
func (c *Client) Embed(ctx context.Context, texts []string) ([]contract.IndexedEmbedding, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	// The API rejects empty strings, so keep inputs non-empty.
	clean := make([]string, len(texts))
	for i, s := range texts {
		if s == "" {
			s = " "
		}
		clean[i] = s
	}

	var resp embeddingsResponse
	if err := c.do(ctx, "/v1/embeddings", embeddingsRequest{Model: c.embedModel, Input: clean}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) != len(clean) {
		return nil, fmt.Errorf("oracle returned %d embeddings for %d inputs", len(resp.Data), len(clean))
	}

	out := make([]contract.IndexedEmbedding, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, f := range d.Embedding {
			vec[j] = float32(f)
		}
		out[i] = contract.IndexedEmbedding{Index: d.Index, Vector: vec}
	}
	return out, nil
}

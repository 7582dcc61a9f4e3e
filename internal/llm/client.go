// Package llm is the generative text collaborator boundary. The client
// speaks the OpenAI-compatible chat-completions wire format over plain
// net/http with retry and backoff; the rest of the pipeline treats it as an
// opaque prompt-in, raw-text-out box.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"chronos/internal/types"
)

// maxResponseSize limits the response body read to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// RetryConfig controls retry behavior for generative calls.
type RetryConfig struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		MinWait:    time.Second,
		MaxWait:    15 * time.Second,
	}
}

// Client is the generative collaborator client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     types.SecretString
	retry      RetryConfig
	logger     *slog.Logger
	sleepFn    func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (the explicit call timeout lives
// on it).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithSleepFunc overrides the sleep between retries, for tests.
func WithSleepFunc(fn func(time.Duration)) Option {
	return func(c *Client) { c.sleepFn = fn }
}

// NewClient creates a Client for the given OpenAI-compatible endpoint.
func NewClient(baseURL, model string, apiKey types.SecretString, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    baseURL,
		model:      model,
		apiKey:     apiKey,
		retry:      DefaultRetryConfig(),
		logger:     logger.With("component", "llm"),
		sleepFn:    time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete submits the system and user prompts and returns the raw text of
// the first completion choice. Transport failures and 5xx/429 responses
// are retried with exponential backoff and jitter; 4xx responses are fatal.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	var lastErr error
	maxAttempts := 1 + c.retry.MaxRetries
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			c.sleepFn(c.backoff(attempt - 1))
		}

		content, retryable, err := c.doRequest(ctx, payload)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.logger.Warn("generative call failed, retrying",
			"attempt", attempt+1, "error", err)
	}

	return "", types.NewAppError(types.ErrCodeUpstreamGenerative,
		"generative collaborator unavailable", lastErr)
}

// doRequest performs a single completion attempt. The second return value
// reports whether the failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, payload []byte) (string, bool, error) {
	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if key := c.apiKey.Unmask(); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Context cancellation is not retryable; the caller has moved on.
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", true, fmt.Errorf("reading completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return "", retryable, fmt.Errorf("completion endpoint returned %d: %s",
			resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("malformed completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("completion endpoint error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("completion response contained no choices")
	}

	return parsed.Choices[0].Message.Content, false, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	base := c.retry.MinWait << attempt
	if base > c.retry.MaxWait {
		base = c.retry.MaxWait
	}
	if base <= c.retry.MinWait {
		return c.retry.MinWait
	}
	jittered := c.retry.MinWait + time.Duration(rand.Float64()*float64(base-c.retry.MinWait))
	return jittered
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway error conditions surfaced to the caller with distinct HTTP statuses
var (
	ErrRateLimited   = errors.New("gateway rate limited")
	ErrQuotaExceeded = errors.New("gateway quota exceeded")
	ErrUnavailable   = errors.New("gateway unavailable")
)

// Client talks to an OpenAI-compatible chat completions gateway
type Client struct {
	apiURL      string
	apiKey      string
	model       string
	httpClient  *http.Client
	maxAttempts int
	backoffBase time.Duration
}

// NewClient creates a new gateway client
func NewClient(apiURL, apiKey, model string) *Client {
	return &Client{
		apiURL:      apiURL,
		apiKey:      apiKey,
		model:       model,
		httpClient:  &http.Client{},
		maxAttempts: 3,
		backoffBase: time.Second,
	}
}

// Message represents a message in the chat conversation. Content is either a
// plain string or a slice of content parts (for image inputs).
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// TextPart is a text segment of a multi-part message
type TextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ImagePart is an image reference in a multi-part message
type ImagePart struct {
	Type     string   `json:"type"`
	ImageURL ImageURL `json:"image_url"`
}

// ImageURL holds the image location for an ImagePart
type ImageURL struct {
	URL string `json:"url"`
}

// NewTextPart builds a text content part
func NewTextPart(text string) TextPart {
	return TextPart{Type: "text", Text: text}
}

// NewImagePart builds an image content part
func NewImagePart(url string) ImagePart {
	return ImagePart{Type: "image_url", ImageURL: ImageURL{URL: url}}
}

// ChatRequest represents a request to the chat completions API
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream,omitempty"`
}

// ChatResponse represents a non-streaming response from the API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// StreamChat sends the conversation and returns the raw SSE body for relaying.
// The caller must close the returned reader.
func (c *Client) StreamChat(ctx context.Context, messages []Message) (io.ReadCloser, error) {
	resp, err := c.send(ctx, ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Complete sends the conversation and returns the assistant's full reply
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.send(ctx, ChatRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}

	return response.Choices[0].Message.Content, nil
}

// send performs the request with retries. Transport errors and 5xx responses
// are retried with exponential backoff (1s, 2s); 429 and 402 map to their
// sentinel errors immediately, other 4xx responses are never retried.
func (c *Client) send(ctx context.Context, request ChatRequest) (*http.Response, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.backoffBase << (attempt - 2)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			drain(resp)
			return nil, ErrRateLimited
		case resp.StatusCode == http.StatusPaymentRequired:
			drain(resp)
			return nil, ErrQuotaExceeded
		case resp.StatusCode >= 500:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			lastErr = fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, body)
			continue
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			return nil, fmt.Errorf("gateway rejected request with status %d: %s", resp.StatusCode, body)
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrUnavailable, c.maxAttempts, lastErr)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	resp.Body.Close()
}

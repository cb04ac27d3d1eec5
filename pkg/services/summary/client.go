// Package summary talks to the hosted text-generation collaborator. The
// capability consumed is deliberately narrow: given a block of text, return
// a natural-language summary. Callers must treat failures as non-fatal.
package summary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

const systemPrompt = "You are a helpful retail analytics assistant."

// Summarizer is the single capability the comparison engine needs.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(apiKey, model string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("summary: API key is empty")
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
		model:      model,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following top 10 analysis results:\n\n%s\n\nProvide an action plan based on the results.",
		text)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   2500,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("summary: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("summary: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("summary: unexpected status %d: %s", resp.StatusCode, string(detail))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("summary: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("summary: response contained no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

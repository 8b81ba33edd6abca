// Package ai holds the text-generation collaborator. The service treats it
// as a single-turn prompt-in, text-out call with no session state.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crax/internal/logger"

	"go.uber.org/zap"
)

// Client is the text-generation collaborator interface consumed by the
// judge and the summarizer.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	defaultBaseURL   = "https://api.anthropic.com"
	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"
	maxTokens        = 300
)

// Anthropic calls the Anthropic Messages API.
type Anthropic struct {
	// BaseURL is overridable for tests.
	BaseURL string

	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropic builds a Messages API client for the configured model.
func NewAnthropic(apiKey string, model string) *Anthropic {
	return &Anthropic{
		BaseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends a single user prompt and returns the first text block.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		logger.Error("generation request failed", zap.Error(err))
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Error("generation request rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", snippet))
		return "", fmt.Errorf("generation request failed: status code %d", resp.StatusCode)
	}

	var parsed messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}

	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("generation response contained no text")
}

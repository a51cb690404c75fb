package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"manova/internal/config"
	"manova/internal/platform/logger"
)

// ErrDisabled is returned when no API key is configured. Callers treat it
// like any other provider failure and fall back locally.
var ErrDisabled = errors.New("ai provider not configured")

// Client talks to an OpenAI-compatible completion and embedding API.
type Client interface {
	// ChatJSON sends a system+user prompt pair in JSON mode and returns
	// the assistant's raw content.
	ChatJSON(ctx context.Context, system, user string) (string, error)
	// Embed returns the embedding vector for the input text.
	Embed(ctx context.Context, input string) ([]float32, error)
}

type client struct {
	log  *logger.Logger
	cfg  *config.AIConfig
	http *http.Client
}

// New creates a provider client from config.
func New(log *logger.Logger, cfg *config.AIConfig) Client {
	return &client{
		log: log.With("client", "openai"),
		cfg: cfg,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *client) ChatJSON(ctx context.Context, system, user string) (string, error) {
	if !c.cfg.IsEnabled() {
		return "", ErrDisabled
	}

	reqBody := chatRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &respFormat{Type: "json_object"},
	}

	var out chatResponse
	if err := c.post(ctx, "/chat/completions", reqBody, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return out.Choices[0].Message.Content, nil
}

type embedRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	EncodingFormat string `json:"encoding_format"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (c *client) Embed(ctx context.Context, input string) ([]float32, error) {
	if !c.cfg.IsEnabled() {
		return nil, ErrDisabled
	}

	reqBody := embedRequest{
		Model:          c.cfg.EmbeddingModel,
		Input:          input,
		EncodingFormat: "float",
	}

	var out embedResponse
	if err := c.post(ctx, "/embeddings", reqBody, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return out.Data[0].Embedding, nil
}

func (c *client) post(ctx context.Context, path string, body, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider http %d: %s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("provider response decode: %w", err)
	}
	return nil
}

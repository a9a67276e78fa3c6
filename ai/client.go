package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Kegagalan provider yang bisa dibedakan oleh caller.
var (
	ErrRateLimited    = errors.New("ai: provider rate limited")
	ErrQuotaExhausted = errors.New("ai: provider quota exhausted")
	ErrUnavailable    = errors.New("ai: provider unavailable")
)

// Turn adalah satu giliran percakapan yang dikirim ke model.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer adalah fungsi model eksternal: (system prompt, percakapan) ->
// teks balasan yang mungkin berisi directive.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, turns []Turn) (string, error)
}

// GatewayClient memanggil gateway chat-completions yang kompatibel OpenAI.
type GatewayClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGatewayClient() *GatewayClient {
	return &GatewayClient{
		baseURL: os.Getenv("AI_GATEWAY_URL"),
		apiKey:  os.Getenv("AI_API_KEY"),
		model:   envOr("AI_MODEL", "google/gemini-2.5-flash"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

type completionRequest struct {
	Model       string  `json:"model"`
	Messages    []Turn  `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *GatewayClient) Complete(ctx context.Context, systemPrompt string, turns []Turn) (string, error) {
	if g.baseURL == "" || g.apiKey == "" {
		return "", fmt.Errorf("%w: gateway belum dikonfigurasi", ErrUnavailable)
	}

	msgs := make([]Turn, 0, len(turns)+1)
	msgs = append(msgs, Turn{Role: "system", Content: systemPrompt})
	msgs = append(msgs, turns...)

	payload, err := json.Marshal(completionRequest{
		Model:       g.model,
		Messages:    msgs,
		Temperature: 0.8,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	case http.StatusPaymentRequired:
		return "", ErrQuotaExhausted
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ai gateway status %d: %s", resp.StatusCode, body)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode balasan gateway: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

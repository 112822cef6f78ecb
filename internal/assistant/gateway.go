package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type gatewayChatReq struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// Gateway is the upstream chat-completion client. The API key is server-held
// and never reaches the browser.
type Gateway struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewGateway(baseURL, apiKey, model string) *Gateway {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &Gateway{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		// no client timeout: the SSE stream is long-lived, cancellation
		// comes from the request context
		Client: &http.Client{},
	}
}

// StreamCompletion prepends the fixed system prompt and opens a streaming
// completion. The raw response is returned for byte-level passthrough; the
// caller owns the body.
func (g *Gateway) StreamCompletion(ctx context.Context, messages []ChatMessage) (*http.Response, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return nil, errors.New("gateway: api key is required")
	}

	all := make([]ChatMessage, 0, len(messages)+1)
	all = append(all, ChatMessage{Role: "system", Content: SystemPrompt()})
	all = append(all, messages...)

	b, err := json.Marshal(gatewayChatReq{Model: g.Model, Messages: all, Stream: true})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(g.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	return g.Client.Do(req)
}

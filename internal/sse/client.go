package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ChatMessage mirrors the proxy's wire shape.
type ChatMessage struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// Client consumes the streaming assistant proxy. The context passed to Stream
// cancels an in-flight request, including mid-stream.
type Client struct {
	Endpoint   string
	Token      string
	HTTPClient *http.Client
}

func NewClient(endpoint, token string) *Client {
	return &Client{Endpoint: endpoint, Token: token, HTTPClient: &http.Client{}}
}

type proxyError struct {
	Error string `json:"error"`
}

// Stream sends the message history and assembles the streamed reply. onUpdate,
// if non-nil, is invoked with the growing assistant text after every delta.
// The returned string is the final assistant message.
func (c *Client) Stream(ctx context.Context, messages []ChatMessage, onUpdate func(partial string)) (string, error) {
	body, err := json.Marshal(map[string]any{"messages": messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		var pe proxyError
		if json.Unmarshal(raw, &pe) == nil && pe.Error != "" {
			return "", errors.New(pe.Error)
		}
		return "", fmt.Errorf("assistant request failed: status %d", resp.StatusCode)
	}

	asm := NewAssembler()
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if delta := asm.Feed(buf[:n]); delta != "" && onUpdate != nil {
				onUpdate(asm.Content())
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return asm.Content(), ctx.Err()
			}
			return asm.Content(), err
		}
	}
	return asm.Content(), nil
}

// ApplyDelta folds the current assistant text into a transcript: the last
// message is replaced if it is already the assistant's, otherwise a new
// assistant message is appended.
func ApplyDelta(messages []ChatMessage, content string) []ChatMessage {
	if n := len(messages); n > 0 && messages[n-1].Role == "assistant" {
		out := append([]ChatMessage(nil), messages...)
		out[n-1].Content = content
		return out
	}
	return append(append([]ChatMessage(nil), messages...), ChatMessage{Role: "assistant", Content: content})
}

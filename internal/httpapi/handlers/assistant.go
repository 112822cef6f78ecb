package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawsquare/pawsquare/internal/assistant"
	"github.com/pawsquare/pawsquare/internal/auth"
)

// The assistant function endpoint speaks the bare {"error": ...} shape instead
// of the API envelope: it is consumed by the streaming chat client, which
// matches on the error text.

type assistantChatReq struct {
	Messages []assistant.ChatMessage `json:"messages"`
}

func (h *Handler) applyAssistantCORS(c *gin.Context) {
	for k, v := range h.CORS.Headers(c.GetHeader("Origin")) {
		c.Header(k, v)
	}
}

// AssistantPreflight answers CORS preflight with an empty 200.
func (h *Handler) AssistantPreflight(c *gin.Context) {
	h.applyAssistantCORS(c)
	c.Status(http.StatusOK)
}

// AssistantChat is the streaming proxy: auth gate, sliding-window rate limit,
// best-effort usage logging, then a byte-level relay of the upstream SSE body.
func (h *Handler) AssistantChat(c *gin.Context) {
	h.applyAssistantCORS(c)

	// auth gate: the endpoint validates the bearer token itself so failures
	// carry the client-visible error shape
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required. Please sign in to use the assistant."})
		return
	}
	uid, err := auth.ParseJWT(strings.TrimPrefix(header, "Bearer "), h.Cfg.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required. Please sign in to use the assistant."})
		return
	}

	var req assistantChatReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages are required"})
		return
	}

	// rate-limit gate: sliding hour, not a fixed bucket. Count-then-insert is
	// not atomic across concurrent requests; the cap is a soft limit.
	limit := int64(h.Cfg.AssistantHourlyLimit)
	count, err := h.UsageRepo.CountSince(c.Request.Context(), uid, time.Now().Add(-time.Hour))
	if err != nil {
		log.Printf("assistant: usage count failed user=%d err=%v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}
	if count >= limit {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": fmt.Sprintf(
			"You have reached the limit of %d messages per hour. Please try again later.", limit)})
		return
	}

	// best-effort usage logging: availability over perfect accounting
	if err := h.UsageRepo.Insert(c.Request.Context(), uid); err != nil {
		log.Printf("assistant: usage insert failed user=%d err=%v", uid, err)
	}

	resp, err := h.Gateway.StreamCompletion(c.Request.Context(), req.Messages)
	if err != nil {
		log.Printf("assistant: upstream call failed user=%d err=%v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}
	defer resp.Body.Close()

	// upstream error translation: never leak the upstream body
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "The assistant is busy right now. Please try again in a moment."})
		return
	case resp.StatusCode == http.StatusPaymentRequired:
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "The assistant is temporarily unavailable."})
		return
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		log.Printf("assistant: upstream status=%d user=%d body=%s", resp.StatusCode, uid, strings.TrimSpace(string(body)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	// success: relay the SSE bytes unmodified
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	flusher, okk := c.Writer.(http.Flusher)
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				return
			}
			if okk {
				flusher.Flush()
			}
		}
		if err != nil {
			return
		}
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/messaging"
)

type openConversationReq struct {
	PeerID uint64 `json:"peer_id" binding:"required"`
}

func (h *Handler) OpenConversation(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var req openConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	conv, err := h.MessagingSvc.OpenDirect(c.Request.Context(), uid, req.PeerID)
	if err != nil {
		if errors.Is(err, messaging.ErrSelfMessage) {
			fail(c, http.StatusBadRequest, 10010, "cannot message yourself")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "failed to open conversation")
		return
	}
	ok(c, gin.H{"conversation_id": conv.ConvID})
}

func (h *Handler) ListConversations(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	views, err := h.MessagingSvc.ListConversations(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50002, "failed to list conversations")
		return
	}
	ok(c, gin.H{"conversations": views})
}

type sendMessageReq struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	convID := c.Param("conversation_id")
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	msg, err := h.MessagingSvc.SendMessage(c.Request.Context(), convID, uid, req.Content)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "conversation not found")
			return
		}
		if errors.Is(err, messaging.ErrEmptyMessage) {
			fail(c, http.StatusBadRequest, 10006, "message is empty")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "failed to send message")
		return
	}
	ok(c, gin.H{"message": msg})
}

func (h *Handler) ListMessages(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	convID := c.Param("conversation_id")
	limit, _ := strconv.Atoi(c.Query("limit"))
	beforeID, _ := strconv.ParseUint(c.Query("before_id"), 10, 64)

	msgs, err := h.MessagingSvc.ListMessages(c.Request.Context(), convID, uid, limit, beforeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "conversation not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50002, "failed to list messages")
		return
	}

	var nextBeforeID uint64
	if len(msgs) > 0 {
		nextBeforeID = msgs[len(msgs)-1].ID
	}
	ok(c, gin.H{"messages": msgs, "next_before_id": nextBeforeID})
}

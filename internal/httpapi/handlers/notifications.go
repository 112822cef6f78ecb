package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	beforeID, _ := strconv.ParseUint(c.Query("before_id"), 10, 64)

	items, err := h.NotifySvc.List(c.Request.Context(), uid, limit, beforeID)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50002, "failed to list notifications")
		return
	}
	unread, _ := h.NotifySvc.UnreadCount(c.Request.Context(), uid)
	ok(c, gin.H{"notifications": items, "unread": unread})
}

type markReadReq struct {
	IDs []uint64 `json:"ids"` // empty = all
}

func (h *Handler) MarkNotificationsRead(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var req markReadReq
	_ = c.ShouldBindJSON(&req) // allow empty body
	if err := h.NotifySvc.MarkRead(c.Request.Context(), uid, req.IDs); err != nil {
		fail(c, http.StatusInternalServerError, 50003, "failed to mark notifications read")
		return
	}
	ok(c, gin.H{"read": true})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/moderation"
)

type createReportReq struct {
	TargetKind string `json:"target_kind" binding:"required"`
	TargetID   string `json:"target_id" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

func (h *Handler) CreateReport(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var req createReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	rep, err := h.ModerationSvc.CreateReport(c.Request.Context(), uid, req.TargetKind, req.TargetID, req.Reason)
	if err != nil {
		if errors.Is(err, moderation.ErrInvalidReport) {
			fail(c, http.StatusBadRequest, 10011, "target and reason are required")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "failed to create report")
		return
	}
	ok(c, gin.H{"report": rep})
}

func (h *Handler) ListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	reports, err := h.ModerationSvc.ListReports(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50002, "failed to list reports")
		return
	}
	ok(c, gin.H{"reports": reports})
}

type resolveReportReq struct {
	Status string `json:"status" binding:"required"` // resolved | dismissed
}

func (h *Handler) ResolveReport(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var req resolveReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if err := h.ModerationSvc.ResolveReport(c.Request.Context(), c.Param("id"), uid, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "report not found or already closed")
			return
		}
		if errors.Is(err, moderation.ErrInvalidReport) {
			fail(c, http.StatusBadRequest, 10012, "status must be resolved or dismissed")
			return
		}
		fail(c, http.StatusInternalServerError, 50003, "failed to resolve report")
		return
	}
	ok(c, gin.H{"resolved": true})
}

type banUserReq struct {
	UserID   uint64 `json:"user_id" binding:"required"`
	Reason   string `json:"reason"`
	Duration string `json:"duration"` // e.g. "72h"; empty = permanent
}

func (h *Handler) BanUser(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var req banUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	var expires *time.Time
	if req.Duration != "" {
		d, err := time.ParseDuration(req.Duration)
		if err != nil || d <= 0 {
			fail(c, http.StatusBadRequest, 10013, "invalid duration")
			return
		}
		t := time.Now().Add(d)
		expires = &t
	}
	ban, err := h.ModerationSvc.BanUser(c.Request.Context(), req.UserID, uid, req.Reason, expires)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50001, "failed to ban user")
		return
	}
	ok(c, gin.H{"ban": ban})
}

func (h *Handler) UnbanUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid user id")
		return
	}
	if err := h.ModerationSvc.UnbanUser(c.Request.Context(), userID); err != nil {
		fail(c, http.StatusInternalServerError, 50003, "failed to unban user")
		return
	}
	ok(c, gin.H{"unbanned": true})
}

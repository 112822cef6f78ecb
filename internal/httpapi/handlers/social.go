package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawsquare/pawsquare/internal/social"
)

func (h *Handler) FollowUser(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid user id")
		return
	}
	if err := h.SocialSvc.Follow(c.Request.Context(), uid, targetID); err != nil {
		if errors.Is(err, social.ErrSelfFollow) {
			fail(c, http.StatusBadRequest, 10007, "cannot follow yourself")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "failed to follow")
		return
	}
	ok(c, gin.H{"following": true})
}

func (h *Handler) UnfollowUser(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid user id")
		return
	}
	if err := h.SocialSvc.Unfollow(c.Request.Context(), uid, targetID); err != nil {
		fail(c, http.StatusInternalServerError, 50001, "failed to unfollow")
		return
	}
	ok(c, gin.H{"following": false})
}

func (h *Handler) ListFollowers(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid user id")
		return
	}
	ids, err := h.SocialSvc.FollowerIDs(c.Request.Context(), targetID)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50002, "failed to list followers")
		return
	}
	ok(c, gin.H{"user_ids": ids})
}

func (h *Handler) ListFollowing(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid user id")
		return
	}
	ids, err := h.SocialSvc.FollowingIDs(c.Request.Context(), targetID)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50002, "failed to list following")
		return
	}
	ok(c, gin.H{"user_ids": ids})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawsquare/pawsquare/internal/community"
)

type createPostReq struct {
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
}

func (h *Handler) CreatePost(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var req createPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	post, err := h.CommunitySvc.CreatePost(c.Request.Context(), uid, req.Content, req.ImageURL)
	if err != nil {
		if errors.Is(err, community.ErrEmptyContent) {
			fail(c, http.StatusBadRequest, 10006, "content is empty")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "failed to create post")
		return
	}
	ok(c, gin.H{"post": post})
}

func (h *Handler) ListPosts(c *gin.Context) {
	uid, _ := userIDFromContext(c)

	limit, _ := strconv.Atoi(c.Query("limit"))
	beforeID, _ := strconv.ParseUint(c.Query("before_id"), 10, 64)
	authorID, _ := strconv.ParseUint(c.Query("author_id"), 10, 64)

	posts, err := h.CommunitySvc.ListPosts(c.Request.Context(), uid, limit, beforeID, authorID)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50002, "failed to list posts")
		return
	}

	var nextBeforeID uint64
	if len(posts) > 0 {
		nextBeforeID = posts[len(posts)-1].ID
	}
	ok(c, gin.H{"posts": posts, "next_before_id": nextBeforeID})
}

func (h *Handler) GetPost(c *gin.Context) {
	uid, _ := userIDFromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid post id")
		return
	}
	post, err := h.CommunitySvc.GetPost(c.Request.Context(), id, uid)
	if err != nil {
		if community.IsNotFound(err) {
			notFound(c, "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50002, "failed to load post")
		return
	}
	ok(c, gin.H{"post": post})
}

func (h *Handler) DeletePost(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid post id")
		return
	}
	if err := h.CommunitySvc.DeletePost(c.Request.Context(), id, uid); err != nil {
		if community.IsNotFound(err) {
			notFound(c, "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50003, "failed to delete post")
		return
	}
	ok(c, gin.H{"deleted": true})
}

type createCommentReq struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) CreateComment(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid post id")
		return
	}
	var req createCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	cm, err := h.CommunitySvc.AddComment(c.Request.Context(), postID, uid, req.Content)
	if err != nil {
		if community.IsNotFound(err) {
			notFound(c, "post not found")
			return
		}
		if errors.Is(err, community.ErrEmptyContent) {
			fail(c, http.StatusBadRequest, 10006, "content is empty")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "failed to create comment")
		return
	}
	ok(c, gin.H{"comment": cm})
}

func (h *Handler) ListComments(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid post id")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	beforeID, _ := strconv.ParseUint(c.Query("before_id"), 10, 64)

	comments, err := h.CommunitySvc.ListComments(c.Request.Context(), postID, limit, beforeID)
	if err != nil {
		if community.IsNotFound(err) {
			notFound(c, "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50002, "failed to list comments")
		return
	}
	ok(c, gin.H{"comments": comments})
}

func (h *Handler) DeleteComment(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid comment id")
		return
	}
	if err := h.CommunitySvc.DeleteComment(c.Request.Context(), id, uid); err != nil {
		if community.IsNotFound(err) {
			notFound(c, "comment not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50003, "failed to delete comment")
		return
	}
	ok(c, gin.H{"deleted": true})
}

func (h *Handler) LikePost(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid post id")
		return
	}
	if err := h.CommunitySvc.Like(c.Request.Context(), postID, uid); err != nil {
		if community.IsNotFound(err) {
			notFound(c, "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "failed to like post")
		return
	}
	ok(c, gin.H{"liked": true})
}

func (h *Handler) UnlikePost(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid post id")
		return
	}
	if err := h.CommunitySvc.Unlike(c.Request.Context(), postID, uid); err != nil {
		fail(c, http.StatusInternalServerError, 50001, "failed to unlike post")
		return
	}
	ok(c, gin.H{"liked": false})
}

func (h *Handler) BookmarkPost(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid post id")
		return
	}
	if err := h.CommunitySvc.Bookmark(c.Request.Context(), postID, uid); err != nil {
		if community.IsNotFound(err) {
			notFound(c, "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "failed to bookmark post")
		return
	}
	ok(c, gin.H{"bookmarked": true})
}

func (h *Handler) UnbookmarkPost(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid post id")
		return
	}
	if err := h.CommunitySvc.Unbookmark(c.Request.Context(), postID, uid); err != nil {
		fail(c, http.StatusInternalServerError, 50001, "failed to remove bookmark")
		return
	}
	ok(c, gin.H{"bookmarked": false})
}

func (h *Handler) ListBookmarks(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	beforeID, _ := strconv.ParseUint(c.Query("before_id"), 10, 64)

	posts, err := h.CommunitySvc.ListBookmarks(c.Request.Context(), uid, limit, beforeID)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50002, "failed to list bookmarks")
		return
	}
	ok(c, gin.H{"posts": posts})
}

package community

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/notify"
)

var ErrEmptyContent = errors.New("content is empty")

const maxPostLen = 5000

type Service struct {
	repo     *Repo
	notifier *notify.Service
}

func NewService(repo *Repo, notifier *notify.Service) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) CreatePost(ctx context.Context, userID uint64, content, imageURL string) (*Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > maxPostLen {
		content = content[:maxPostLen]
	}
	p := &Post{UserID: userID, Content: content, ImageURL: imageURL}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPost(ctx context.Context, id, viewerID uint64) (*Post, error) {
	p, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	page := []Post{*p}
	if err := s.repo.Decorate(ctx, page, viewerID); err != nil {
		return nil, err
	}
	return &page[0], nil
}

func (s *Service) ListPosts(ctx context.Context, viewerID uint64, limit int, beforeID, authorID uint64) ([]Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	posts, err := s.repo.ListPosts(ctx, limit, beforeID, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Decorate(ctx, posts, viewerID); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Service) DeletePost(ctx context.Context, id, ownerID uint64) error {
	return s.repo.DeletePost(ctx, id, ownerID)
}

func (s *Service) AddComment(ctx context.Context, postID, userID uint64, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	cm := &Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.repo.CreateComment(ctx, cm); err != nil {
		return nil, err
	}
	s.notifier.Fanout(ctx, post.UserID, userID, notify.KindComment, strconv.FormatUint(postID, 10))
	return cm, nil
}

func (s *Service) ListComments(ctx context.Context, postID uint64, limit int, beforeID uint64) ([]Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, postID, limit, beforeID)
}

func (s *Service) DeleteComment(ctx context.Context, id, ownerID uint64) error {
	return s.repo.DeleteComment(ctx, id, ownerID)
}

func (s *Service) Like(ctx context.Context, postID, userID uint64) error {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	created, err := s.repo.AddLike(ctx, postID, userID)
	if err != nil {
		return err
	}
	if created {
		s.notifier.Fanout(ctx, post.UserID, userID, notify.KindLike, strconv.FormatUint(postID, 10))
	}
	return nil
}

func (s *Service) Unlike(ctx context.Context, postID, userID uint64) error {
	return s.repo.RemoveLike(ctx, postID, userID)
}

func (s *Service) Bookmark(ctx context.Context, postID, userID uint64) error {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return err
	}
	return s.repo.AddBookmark(ctx, postID, userID)
}

func (s *Service) Unbookmark(ctx context.Context, postID, userID uint64) error {
	return s.repo.RemoveBookmark(ctx, postID, userID)
}

func (s *Service) ListBookmarks(ctx context.Context, userID uint64, limit int, beforeID uint64) ([]Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	posts, err := s.repo.ListBookmarkedPosts(ctx, userID, limit, beforeID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Decorate(ctx, posts, userID); err != nil {
		return nil, err
	}
	return posts, nil
}

// IsNotFound reports whether err maps to a missing or unowned row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

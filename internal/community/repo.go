package community

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreatePost(ctx context.Context, p *Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repo) GetPost(ctx context.Context, id uint64) (*Post, error) {
	var p Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPosts returns posts in DESC id order (newest -> oldest).
func (r *Repo) ListPosts(ctx context.Context, limit int, beforeID uint64, authorID uint64) ([]Post, error) {
	q := r.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	if authorID > 0 {
		q = q.Where("user_id = ?", authorID)
	}
	var posts []Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *Repo) DeletePost(ctx context.Context, id, ownerID uint64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) CreateComment(ctx context.Context, cm *Comment) error {
	return r.db.WithContext(ctx).Create(cm).Error
}

func (r *Repo) ListComments(ctx context.Context, postID uint64, limit int, beforeID uint64) ([]Comment, error) {
	q := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id DESC").
		Limit(limit)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	var out []Comment
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) DeleteComment(ctx context.Context, id, ownerID uint64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddLike is idempotent: re-liking an already liked post is a no-op.
func (r *Repo) AddLike(ctx context.Context, postID, userID uint64) (created bool, err error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Like{PostID: postID, UserID: userID})
	return res.RowsAffected > 0, res.Error
}

func (r *Repo) RemoveLike(ctx context.Context, postID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&Like{}).Error
}

func (r *Repo) AddBookmark(ctx context.Context, postID, userID uint64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Bookmark{PostID: postID, UserID: userID}).Error
}

func (r *Repo) RemoveBookmark(ctx context.Context, postID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&Bookmark{}).Error
}

func (r *Repo) ListBookmarkedPosts(ctx context.Context, userID uint64, limit int, beforeID uint64) ([]Post, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ?", userID).
		Order("posts.id DESC").
		Limit(limit)
	if beforeID > 0 {
		q = q.Where("posts.id < ?", beforeID)
	}
	var posts []Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Decorate fills per-post counters and viewer flags for a page of posts.
func (r *Repo) Decorate(ctx context.Context, posts []Post, viewerID uint64) error {
	for i := range posts {
		p := &posts[i]
		if err := r.db.WithContext(ctx).Model(&Like{}).Where("post_id = ?", p.ID).Count(&p.LikeCount).Error; err != nil {
			return err
		}
		if err := r.db.WithContext(ctx).Model(&Comment{}).Where("post_id = ?", p.ID).Count(&p.CommentCount).Error; err != nil {
			return err
		}
		if viewerID == 0 {
			continue
		}
		var cnt int64
		if err := r.db.WithContext(ctx).Model(&Like{}).Where("post_id = ? AND user_id = ?", p.ID, viewerID).Count(&cnt).Error; err != nil {
			return err
		}
		p.Liked = cnt > 0
		if err := r.db.WithContext(ctx).Model(&Bookmark{}).Where("post_id = ? AND user_id = ?", p.ID, viewerID).Count(&cnt).Error; err != nil {
			return err
		}
		p.Bookmarked = cnt > 0
	}
	return nil
}

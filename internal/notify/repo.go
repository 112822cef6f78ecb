package notify

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Insert(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// List returns notifications in DESC id order (newest -> oldest).
func (r *Repo) List(ctx context.Context, recipientID uint64, limit int, beforeID uint64) ([]Notification, error) {
	q := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("id DESC").
		Limit(limit)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	var out []Notification
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UnreadCount(ctx context.Context, recipientID uint64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ? AND `read` = ?", recipientID, false).
		Count(&cnt).Error
	return cnt, err
}

func (r *Repo) MarkRead(ctx context.Context, recipientID uint64, ids []uint64) error {
	q := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ?", recipientID)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	return q.Update("read", true).Error
}

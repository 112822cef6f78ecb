package assistant

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Usage is one accepted assistant request. Rows are append-only and never
// updated; the only consumer is the sliding-window count below. Retention is
// an external job's concern.
type Usage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"index:idx_ai_usage_user_created,priority:1;not null"`
	CreatedAt time.Time `gorm:"index:idx_ai_usage_user_created,priority:2"`
}

func (Usage) TableName() string { return "ai_usages" }

type UsageRepo struct {
	db *gorm.DB
}

func NewUsageRepo(db *gorm.DB) *UsageRepo {
	return &UsageRepo{db: db}
}

// CountSince counts the user's accepted requests in the trailing window
// ending at now. Sliding window, not a fixed bucket.
func (r *UsageRepo) CountSince(ctx context.Context, userID uint64, since time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&Usage{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&cnt).Error
	return cnt, err
}

func (r *UsageRepo) Insert(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Create(&Usage{UserID: userID}).Error
}

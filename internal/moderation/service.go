package moderation

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/common"
)

var ErrInvalidReport = errors.New("target and reason are required")

var validTargets = map[string]bool{"post": true, "comment": true, "user": true}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) CreateReport(ctx context.Context, reporterID uint64, targetKind, targetID, reason string) (*Report, error) {
	reason = strings.TrimSpace(reason)
	if !validTargets[targetKind] || targetID == "" || reason == "" {
		return nil, ErrInvalidReport
	}
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	rep := &Report{
		ID:         id,
		ReporterID: reporterID,
		TargetKind: targetKind,
		TargetID:   targetID,
		Reason:     reason,
		Status:     StatusOpen,
	}
	if err := s.db.WithContext(ctx).Create(rep).Error; err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *Service) ListReports(ctx context.Context, status string, limit int) ([]Report, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []Report
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) ResolveReport(ctx context.Context, reportID string, moderatorID uint64, status string) error {
	if status != StatusResolved && status != StatusDismissed {
		return ErrInvalidReport
	}
	res := s.db.WithContext(ctx).Model(&Report{}).
		Where("id = ? AND status = ?", reportID, StatusOpen).
		Updates(map[string]any{
			"status":      status,
			"resolved_by": moderatorID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Service) BanUser(ctx context.Context, userID, moderatorID uint64, reason string, expiresAt *time.Time) (*UserBan, error) {
	ban := &UserBan{
		UserID:    userID,
		Reason:    strings.TrimSpace(reason),
		BannedBy:  moderatorID,
		ExpiresAt: expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(ban).Error; err != nil {
		return nil, err
	}
	return ban, nil
}

func (s *Service) UnbanUser(ctx context.Context, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&UserBan{}).Error
}

func (s *Service) IsBanned(ctx context.Context, userID uint64) (bool, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&UserBan{}).
		Where("user_id = ? AND (expires_at IS NULL OR expires_at > ?)", userID, time.Now()).
		Count(&cnt).Error
	return cnt > 0, err
}

func (s *Service) GrantRole(ctx context.Context, userID uint64, role string) error {
	return s.db.WithContext(ctx).Create(&UserRole{UserID: userID, Role: role}).Error
}

func (s *Service) HasRole(ctx context.Context, userID uint64, roles ...string) (bool, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&UserRole{}).
		Where("user_id = ? AND role IN ?", userID, roles).
		Count(&cnt).Error
	return cnt > 0, err
}

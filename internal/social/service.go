package social

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pawsquare/pawsquare/internal/notify"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

type Service struct {
	db       *gorm.DB
	notifier *notify.Service
}

func NewService(db *gorm.DB, notifier *notify.Service) *Service {
	return &Service{db: db, notifier: notifier}
}

func (s *Service) Follow(ctx context.Context, followerID, followeeID uint64) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Follow{FollowerID: followerID, FolloweeID: followeeID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		s.notifier.Fanout(ctx, followeeID, followerID, notify.KindFollow, strconv.FormatUint(followerID, 10))
	}
	return nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followeeID uint64) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&Follow{}).Error
}

func (s *Service) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error
	return cnt > 0, err
}

// FollowerIDs returns who follows the given user.
func (s *Service) FollowerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&Follow{}).
		Where("followee_id = ?", userID).
		Order("id DESC").
		Pluck("follower_id", &ids).Error
	return ids, err
}

// FollowingIDs returns whom the given user follows.
func (s *Service) FollowingIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&Follow{}).
		Where("follower_id = ?", userID).
		Order("id DESC").
		Pluck("followee_id", &ids).Error
	return ids, err
}

func (s *Service) Counts(ctx context.Context, userID uint64) (followers, following int64, err error) {
	if err = s.db.WithContext(ctx).Model(&Follow{}).
		Where("followee_id = ?", userID).Count(&followers).Error; err != nil {
		return
	}
	err = s.db.WithContext(ctx).Model(&Follow{}).
		Where("follower_id = ?", userID).Count(&following).Error
	return
}

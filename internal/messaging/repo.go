package messaging

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

func (r *Repo) CreateConversation(ctx context.Context, conv *Conversation, userA, userB uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		if err := tx.Create(&Participant{ConvID: conv.ConvID, UserID: userA}).Error; err != nil {
			return err
		}
		return tx.Create(&Participant{ConvID: conv.ConvID, UserID: userB}).Error
	})
}

// FindDirect returns the existing two-party conversation between the users, if any.
func (r *Repo) FindDirect(ctx context.Context, userA, userB uint64) (*Conversation, error) {
	var convID string
	err := r.db.WithContext(ctx).
		Model(&Participant{}).
		Select("conv_id").
		Where("user_id IN ?", []uint64{userA, userB}).
		Group("conv_id").
		Having("COUNT(DISTINCT user_id) = 2").
		Limit(1).
		Scan(&convID).Error
	if err != nil {
		return nil, err
	}
	if convID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var conv Conversation
	if err := r.db.WithContext(ctx).Where("conv_id = ?", convID).First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *Repo) IsParticipant(ctx context.Context, convID string, userID uint64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&Participant{}).
		Where("conv_id = ? AND user_id = ?", convID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *Repo) PeerID(ctx context.Context, convID string, selfID uint64) (uint64, error) {
	var peer uint64
	err := r.db.WithContext(ctx).
		Model(&Participant{}).
		Select("user_id").
		Where("conv_id = ? AND user_id <> ?", convID, selfID).
		Limit(1).
		Scan(&peer).Error
	if err != nil {
		return 0, err
	}
	if peer == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return peer, nil
}

func (r *Repo) ListConversationIDs(ctx context.Context, userID uint64) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&Participant{}).
		Where("user_id = ?", userID).
		Order("id DESC").
		Pluck("conv_id", &ids).Error
	return ids, err
}

func (r *Repo) InsertMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		// bump conversation recency
		return tx.Model(&Conversation{}).
			Where("conv_id = ?", m.ConvID).
			Update("updated_at", m.CreatedAt).Error
	})
}

// ListMessages returns messages in DESC id order (newest -> oldest).
func (r *Repo) ListMessages(ctx context.Context, convID string, limit int, beforeID uint64) ([]Message, error) {
	q := r.db.WithContext(ctx).
		Where("conv_id = ?", convID).
		Order("id DESC").
		Limit(limit)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	var msgs []Message
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *Repo) LastMessage(ctx context.Context, convID string) (*Message, error) {
	var m Message
	err := r.db.WithContext(ctx).
		Where("conv_id = ?", convID).
		Order("id DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

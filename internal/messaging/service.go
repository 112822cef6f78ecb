package messaging

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/common"
	"github.com/pawsquare/pawsquare/internal/notify"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrSelfMessage  = errors.New("cannot message yourself")
)

type ConversationView struct {
	ConversationID string   `json:"conversation_id"`
	PeerID         uint64   `json:"peer_id"`
	LastMessage    *Message `json:"last_message,omitempty"`
}

type Service struct {
	repo     *Repo
	notifier *notify.Service
}

func NewService(repo *Repo, notifier *notify.Service) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// OpenDirect returns the two-party conversation between the users, creating it
// on first contact.
func (s *Service) OpenDirect(ctx context.Context, selfID, peerID uint64) (*Conversation, error) {
	if selfID == peerID {
		return nil, ErrSelfMessage
	}
	conv, err := s.repo.FindDirect(ctx, selfID, peerID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cid, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	conv = &Conversation{ConvID: cid}
	if err := s.repo.CreateConversation(ctx, conv, selfID, peerID); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *Service) ListConversations(ctx context.Context, selfID uint64) ([]ConversationView, error) {
	ids, err := s.repo.ListConversationIDs(ctx, selfID)
	if err != nil {
		return nil, err
	}
	out := make([]ConversationView, 0, len(ids))
	for _, cid := range ids {
		peer, err := s.repo.PeerID(ctx, cid, selfID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		view := ConversationView{ConversationID: cid, PeerID: peer}
		if last, err := s.repo.LastMessage(ctx, cid); err == nil {
			view.LastMessage = last
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *Service) SendMessage(ctx context.Context, convID string, senderID uint64, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	member, err := s.repo.IsParticipant(ctx, convID, senderID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, gorm.ErrRecordNotFound
	}

	m := &Message{ConvID: convID, SenderID: senderID, Content: content}
	if err := s.repo.InsertMessage(ctx, m); err != nil {
		return nil, err
	}

	if peer, err := s.repo.PeerID(ctx, convID, senderID); err == nil {
		s.notifier.Fanout(ctx, peer, senderID, notify.KindMessage, convID)
	}
	return m, nil
}

func (s *Service) ListMessages(ctx context.Context, convID string, selfID uint64, limit int, beforeID uint64) ([]Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	member, err := s.repo.IsParticipant(ctx, convID, selfID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, gorm.ErrRecordNotFound
	}
	return s.repo.ListMessages(ctx, convID, limit, beforeID)
}

// IsParticipant is used by the realtime layer to authorize channel joins.
func (s *Service) IsParticipant(ctx context.Context, convID string, userID uint64) (bool, error) {
	return s.repo.IsParticipant(ctx, convID, userID)
}

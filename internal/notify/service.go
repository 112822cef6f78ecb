package notify

import (
	"context"
	"log"

	"github.com/pawsquare/pawsquare/internal/store/rabbitmq"
)

// Queue is the slice of the rabbit publisher the service needs.
type Queue interface {
	PublishNotification(ctx context.Context, job rabbitmq.NotificationJob) error
}

type Service struct {
	repo  *Repo
	queue Queue
}

// NewService wires the notification fan-out. A nil queue degrades to
// synchronous inserts, which the tests and single-binary deployments use.
func NewService(repo *Repo, queue Queue) *Service {
	return &Service{repo: repo, queue: queue}
}

// Fanout queues a notification for the recipient. Self-notifications are
// dropped. Failures are logged, never surfaced: a missed notification must not
// fail the action that produced it.
func (s *Service) Fanout(ctx context.Context, recipientID, actorID uint64, kind, subjectID string) {
	if recipientID == actorID || recipientID == 0 {
		return
	}
	job := rabbitmq.NotificationJob{
		RecipientID: recipientID,
		ActorID:     actorID,
		Kind:        kind,
		SubjectID:   subjectID,
	}
	if s.queue == nil {
		if err := s.HandleJob(ctx, job); err != nil {
			log.Printf("notify insert failed recipient=%d kind=%s err=%v", recipientID, kind, err)
		}
		return
	}
	if err := s.queue.PublishNotification(ctx, job); err != nil {
		log.Printf("notify publish failed recipient=%d kind=%s err=%v", recipientID, kind, err)
	}
}

// HandleJob materializes a queued job into a notification row. Used by the
// worker consumer and by the nil-queue fallback.
func (s *Service) HandleJob(ctx context.Context, job rabbitmq.NotificationJob) error {
	if job.RecipientID == 0 || job.RecipientID == job.ActorID {
		return nil
	}
	return s.repo.Insert(ctx, &Notification{
		RecipientID: job.RecipientID,
		ActorID:     job.ActorID,
		Kind:        job.Kind,
		SubjectID:   job.SubjectID,
	})
}

func (s *Service) List(ctx context.Context, recipientID uint64, limit int, beforeID uint64) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, recipientID, limit, beforeID)
}

func (s *Service) UnreadCount(ctx context.Context, recipientID uint64) (int64, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}

func (s *Service) MarkRead(ctx context.Context, recipientID uint64, ids []uint64) error {
	return s.repo.MarkRead(ctx, recipientID, ids)
}

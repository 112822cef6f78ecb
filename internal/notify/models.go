package notify

import "time"

const (
	KindLike    = "like"
	KindComment = "comment"
	KindFollow  = "follow"
	KindMessage = "message"
)

type Notification struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID uint64    `gorm:"index:idx_notif_recipient_read,priority:1;not null" json:"-"`
	ActorID     uint64    `gorm:"not null" json:"actor_id"`
	Kind        string    `gorm:"type:varchar(16);not null" json:"kind"`
	SubjectID   string    `gorm:"type:varchar(64)" json:"subject_id"`
	Read        bool      `gorm:"index:idx_notif_recipient_read,priority:2;not null;default:false" json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

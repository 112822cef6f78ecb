package messaging

import "time"

type Conversation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	ConvID    string    `gorm:"type:varchar(26);uniqueIndex;not null" json:"conversation_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }

type Participant struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	ConvID string `gorm:"type:varchar(26);index:uniq_part_conv_user,unique,priority:1;not null" json:"conversation_id"`
	UserID uint64 `gorm:"index:uniq_part_conv_user,unique,priority:2;index;not null" json:"user_id"`
}

func (Participant) TableName() string { return "conversation_participants" }

type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConvID    string    `gorm:"type:varchar(26);index;not null" json:"conversation_id"`
	SenderID  uint64    `gorm:"index;not null" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string { return "messages" }

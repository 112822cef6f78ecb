package social

import "time"

type Follow struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID uint64    `gorm:"index:uniq_follow_pair,unique,priority:1;not null" json:"follower_id"`
	FolloweeID uint64    `gorm:"index:uniq_follow_pair,unique,priority:2;not null" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }

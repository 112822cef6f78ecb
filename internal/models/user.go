package models

import "time"

// User doubles as the public profile record.
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	Username     string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"username"`
	DisplayName  string    `gorm:"type:varchar(64)" json:"display_name"`
	AvatarURL    string    `gorm:"type:varchar(512)" json:"avatar_url"`
	Bio          string    `gorm:"type:varchar(500)" json:"bio"`
	PasswordHash string    `gorm:"type:varchar(128);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "profiles" }

package moderation

import "time"

const (
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

const (
	StatusOpen      = "open"
	StatusResolved  = "resolved"
	StatusDismissed = "dismissed"
)

type Report struct {
	ID         string    `gorm:"primaryKey;size:26" json:"id"` // ULID
	ReporterID uint64    `gorm:"index;not null" json:"reporter_id"`
	TargetKind string    `gorm:"type:varchar(16);not null" json:"target_kind"` // post, comment, user
	TargetID   string    `gorm:"type:varchar(64);not null" json:"target_id"`
	Reason     string    `gorm:"type:varchar(500);not null" json:"reason"`
	Status     string    `gorm:"type:varchar(16);index;not null;default:open" json:"status"`
	ResolvedBy *uint64   `json:"resolved_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Report) TableName() string { return "reports" }

type UserRole struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID uint64 `gorm:"index:uniq_role_user,unique,priority:1;not null" json:"user_id"`
	Role   string `gorm:"type:varchar(16);index:uniq_role_user,unique,priority:2;not null" json:"role"`
}

func (UserRole) TableName() string { return "user_roles" }

type UserBan struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64     `gorm:"index;not null" json:"user_id"`
	Reason    string     `gorm:"type:varchar(500)" json:"reason"`
	BannedBy  uint64     `gorm:"not null" json:"banned_by"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // nil = permanent
	CreatedAt time.Time  `json:"created_at"`
}

func (UserBan) TableName() string { return "user_bans" }

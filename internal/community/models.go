package community

import "time"

type Post struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  string    `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated on reads, not stored.
	LikeCount    int64 `gorm:"-" json:"like_count"`
	CommentCount int64 `gorm:"-" json:"comment_count"`
	Liked        bool  `gorm:"-" json:"liked"`
	Bookmarked   bool  `gorm:"-" json:"bookmarked"`
}

func (Post) TableName() string { return "posts" }

type Comment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    uint64    `gorm:"index;not null" json:"post_id"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

type Like struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    uint64    `gorm:"index:uniq_like_post_user,unique,priority:1;not null" json:"post_id"`
	UserID    uint64    `gorm:"index:uniq_like_post_user,unique,priority:2;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string { return "likes" }

type Bookmark struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    uint64    `gorm:"index:uniq_bm_post_user,unique,priority:1;not null" json:"post_id"`
	UserID    uint64    `gorm:"index:uniq_bm_post_user,unique,priority:2;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Bookmark) TableName() string { return "bookmarks" }

package pets

import "time"

type Pet struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   uint64     `gorm:"index;not null" json:"owner_id"`
	Name      string     `gorm:"type:varchar(64);not null" json:"name"`
	Species   string     `gorm:"type:varchar(32);not null" json:"species"`
	Breed     string     `gorm:"type:varchar(64)" json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Bio       string     `gorm:"type:varchar(500)" json:"bio,omitempty"`
	AvatarURL string     `gorm:"type:varchar(512)" json:"avatar_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Pet) TableName() string { return "pets" }

type PetPhoto struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PetID     uint64    `gorm:"index;not null" json:"pet_id"`
	URL       string    `gorm:"type:varchar(512);not null" json:"url"`
	Caption   string    `gorm:"type:varchar(200)" json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (PetPhoto) TableName() string { return "pet_photos" }

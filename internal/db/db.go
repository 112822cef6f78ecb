package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/assistant"
	"github.com/pawsquare/pawsquare/internal/community"
	"github.com/pawsquare/pawsquare/internal/messaging"
	"github.com/pawsquare/pawsquare/internal/models"
	"github.com/pawsquare/pawsquare/internal/moderation"
	"github.com/pawsquare/pawsquare/internal/notify"
	"github.com/pawsquare/pawsquare/internal/pets"
	"github.com/pawsquare/pawsquare/internal/social"
)

func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	return gdb
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&community.Post{},
		&community.Comment{},
		&community.Like{},
		&community.Bookmark{},
		&social.Follow{},
		&pets.Pet{},
		&pets.PetPhoto{},
		&messaging.Conversation{},
		&messaging.Participant{},
		&messaging.Message{},
		&notify.Notification{},
		&moderation.Report{},
		&moderation.UserRole{},
		&moderation.UserBan{},
		&assistant.Usage{},
	)
}

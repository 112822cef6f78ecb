package social

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/notify"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Follow{}, &notify.Notification{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return NewService(db, notify.NewService(notify.NewRepo(db), nil)), db
}

func TestFollow_Lifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Follow(ctx, 1, 1); err != ErrSelfFollow {
		t.Fatalf("self follow err = %v", err)
	}

	if err := svc.Follow(ctx, 1, 2); err != nil {
		t.Fatalf("follow: %v", err)
	}
	following, err := svc.IsFollowing(ctx, 1, 2)
	if err != nil || !following {
		t.Fatalf("IsFollowing = %v, %v", following, err)
	}
	// One-directional.
	if back, _ := svc.IsFollowing(ctx, 2, 1); back {
		t.Fatal("follow reported in the reverse direction")
	}

	if err := svc.Unfollow(ctx, 1, 2); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if still, _ := svc.IsFollowing(ctx, 1, 2); still {
		t.Fatal("still following after unfollow")
	}
}

func TestFollow_DuplicateNotifiesOnce(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	if err := svc.Follow(ctx, 10, 11); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := svc.Follow(ctx, 10, 11); err != nil {
		t.Fatalf("repeat follow: %v", err)
	}

	followers, following, err := svc.Counts(ctx, 11)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if followers != 1 || following != 0 {
		t.Fatalf("counts = %d/%d", followers, following)
	}

	var cnt int64
	if err := db.Model(&notify.Notification{}).
		Where("recipient_id = ? AND kind = ?", uint64(11), notify.KindFollow).
		Count(&cnt).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("follow notifications = %d, want 1", cnt)
	}
}

func TestFollowLists(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_ = svc.Follow(ctx, 21, 20)
	_ = svc.Follow(ctx, 22, 20)
	_ = svc.Follow(ctx, 20, 23)

	followers, err := svc.FollowerIDs(ctx, 20)
	if err != nil {
		t.Fatalf("followers: %v", err)
	}
	if len(followers) != 2 || followers[0] != 22 || followers[1] != 21 {
		t.Fatalf("followers = %v", followers)
	}

	following, err := svc.FollowingIDs(ctx, 20)
	if err != nil {
		t.Fatalf("following: %v", err)
	}
	if len(following) != 1 || following[0] != 23 {
		t.Fatalf("following = %v", following)
	}
}

package messaging

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/notify"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Conversation{}, &Participant{}, &Message{}, &notify.Notification{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	notifier := notify.NewService(notify.NewRepo(db), nil)
	return NewService(NewRepo(db), notifier), db
}

func TestOpenDirect_FindOrCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.OpenDirect(ctx, 1, 1); err != ErrSelfMessage {
		t.Fatalf("self conversation err = %v", err)
	}

	first, err := svc.OpenDirect(ctx, 1, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if first.ConvID == "" {
		t.Fatal("conversation id not assigned")
	}

	// Same pair, either direction, resolves to the same conversation.
	again, err := svc.OpenDirect(ctx, 2, 1)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if again.ConvID != first.ConvID {
		t.Fatalf("reopen created a new conversation: %s vs %s", again.ConvID, first.ConvID)
	}

	// A different pair gets its own conversation.
	other, err := svc.OpenDirect(ctx, 1, 3)
	if err != nil {
		t.Fatalf("open other: %v", err)
	}
	if other.ConvID == first.ConvID {
		t.Fatal("distinct pairs share a conversation")
	}
}

func TestSendMessage_ParticipantsOnly(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	conv, err := svc.OpenDirect(ctx, 10, 11)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := svc.SendMessage(ctx, conv.ConvID, 10, "   "); err != ErrEmptyMessage {
		t.Fatalf("blank message err = %v", err)
	}
	if _, err := svc.SendMessage(ctx, conv.ConvID, 99, "let me in"); err != gorm.ErrRecordNotFound {
		t.Fatalf("outsider send err = %v", err)
	}

	m, err := svc.SendMessage(ctx, conv.ConvID, 10, "is Biscuit free for a park date?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if m.ID == 0 {
		t.Fatal("message id not assigned")
	}

	// The peer gets a message notification; the sender does not.
	var cnt int64
	if err := db.Model(&notify.Notification{}).
		Where("recipient_id = ? AND kind = ?", uint64(11), notify.KindMessage).
		Count(&cnt).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("peer notifications = %d, want 1", cnt)
	}
}

func TestListMessages_CursorNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	conv, _ := svc.OpenDirect(ctx, 20, 21)

	var ids []uint64
	for _, text := range []string{"one", "two", "three", "four"} {
		m, err := svc.SendMessage(ctx, conv.ConvID, 20, text)
		if err != nil {
			t.Fatalf("send %q: %v", text, err)
		}
		ids = append(ids, m.ID)
	}

	if _, err := svc.ListMessages(ctx, conv.ConvID, 99, 10, 0); err != gorm.ErrRecordNotFound {
		t.Fatalf("outsider list err = %v", err)
	}

	page1, err := svc.ListMessages(ctx, conv.ConvID, 21, 2, 0)
	if err != nil {
		t.Fatalf("page1: %v", err)
	}
	if len(page1) != 2 || page1[0].ID != ids[3] || page1[1].ID != ids[2] {
		t.Fatalf("page1 = %+v", page1)
	}

	page2, err := svc.ListMessages(ctx, conv.ConvID, 21, 2, page1[1].ID)
	if err != nil {
		t.Fatalf("page2: %v", err)
	}
	if len(page2) != 2 || page2[0].ID != ids[1] {
		t.Fatalf("page2 = %+v", page2)
	}
}

func TestListConversations_PeerAndLastMessage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	conv, _ := svc.OpenDirect(ctx, 30, 31)
	_, _ = svc.SendMessage(ctx, conv.ConvID, 31, "first")
	_, _ = svc.SendMessage(ctx, conv.ConvID, 31, "latest")

	views, err := svc.ListConversations(ctx, 30)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("views = %+v", views)
	}
	v := views[0]
	if v.ConversationID != conv.ConvID || v.PeerID != 31 {
		t.Fatalf("view = %+v", v)
	}
	if v.LastMessage == nil || v.LastMessage.Content != "latest" {
		t.Fatalf("last message = %+v", v.LastMessage)
	}
}

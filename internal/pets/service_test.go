package pets

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Pet{}, &PetPhoto{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return NewService(db)
}

func TestCreatePet_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, &Pet{OwnerID: 1, Name: "  ", Species: "dog"}); err != ErrInvalidPet {
		t.Fatalf("blank name err = %v", err)
	}
	if err := svc.Create(ctx, &Pet{OwnerID: 1, Name: "Biscuit", Species: ""}); err != ErrInvalidPet {
		t.Fatalf("blank species err = %v", err)
	}

	p := &Pet{OwnerID: 1, Name: " Biscuit ", Species: " dog ", Breed: "corgi"}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Biscuit" || p.Species != "dog" {
		t.Fatalf("fields not trimmed: %+v", p)
	}
}

func TestUpdateAndDelete_OwnerOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p := &Pet{OwnerID: 10, Name: "Mochi", Species: "cat"}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Update(ctx, p.ID, 11, map[string]any{"bio": "sneaky"}); err != gorm.ErrRecordNotFound {
		t.Fatalf("update by non-owner err = %v", err)
	}
	if err := svc.Update(ctx, p.ID, 10, map[string]any{"bio": "loves boxes"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.Get(ctx, p.ID)
	if err != nil || got.Bio != "loves boxes" {
		t.Fatalf("get after update: %+v, %v", got, err)
	}

	if err := svc.Delete(ctx, p.ID, 11); err != gorm.ErrRecordNotFound {
		t.Fatalf("delete by non-owner err = %v", err)
	}
	if err := svc.Delete(ctx, p.ID, 10); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); err != gorm.ErrRecordNotFound {
		t.Fatalf("get after delete err = %v", err)
	}
}

func TestPhotos_CascadeOnPetDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p := &Pet{OwnerID: 20, Name: "Rex", Species: "dog"}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AddPhoto(ctx, p.ID, 21, "https://cdn.example/rex1.jpg", ""); err == nil {
		t.Fatal("non-owner added a photo")
	}
	photo, err := svc.AddPhoto(ctx, p.ID, 20, "https://cdn.example/rex1.jpg", "beach day")
	if err != nil {
		t.Fatalf("add photo: %v", err)
	}
	if _, err := svc.AddPhoto(ctx, p.ID, 20, "   ", ""); err == nil {
		t.Fatal("blank url accepted")
	}

	photos, err := svc.ListPhotos(ctx, p.ID)
	if err != nil || len(photos) != 1 {
		t.Fatalf("photos = %+v, %v", photos, err)
	}

	if err := svc.DeletePhoto(ctx, photo.ID, 21); err != gorm.ErrRecordNotFound {
		t.Fatalf("delete photo by non-owner err = %v", err)
	}

	// Deleting the pet removes its gallery too.
	if _, err := svc.AddPhoto(ctx, p.ID, 20, "https://cdn.example/rex2.jpg", ""); err != nil {
		t.Fatalf("add second photo: %v", err)
	}
	if err := svc.Delete(ctx, p.ID, 20); err != nil {
		t.Fatalf("delete pet: %v", err)
	}
	photos, err = svc.ListPhotos(ctx, p.ID)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(photos) != 0 {
		t.Fatalf("photos survived the pet delete: %+v", photos)
	}
}

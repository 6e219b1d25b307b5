package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/sportscamp/sportscamp-api/model"
)

func TestCatalogCreateForcesPendingStatus(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)

	cls := &model.Class{
		Name:            "Evening Swim",
		InstructorEmail: "jamie@example.com",
		Status:          model.ClassStatusApproved, // must be ignored
		Price:           30,
		Seats:           8,
		Student:         99, // must be ignored
	}
	if err := catalog.Create(context.Background(), cls); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var fresh model.Class
	if err := db.First(&fresh, cls.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if fresh.Status != model.ClassStatusPending {
		t.Errorf("expected a new class to start pending, got %s", fresh.Status)
	}
	if fresh.Student != 0 {
		t.Errorf("expected a new class to start with zero students, got %d", fresh.Student)
	}
}

func TestCatalogSetStatus(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()
	cls := createApprovedClass(t, db, 5, 0)

	if err := catalog.SetStatus(ctx, cls.ID, model.ClassStatusDenied); err != nil {
		t.Fatalf("set status failed: %v", err)
	}

	var fresh model.Class
	if err := db.First(&fresh, cls.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if fresh.Status != model.ClassStatusDenied {
		t.Errorf("expected denied, got %s", fresh.Status)
	}

	if err := catalog.SetStatus(ctx, 99999, model.ClassStatusApproved); err != ErrClassNotFound {
		t.Fatalf("expected ErrClassNotFound for unknown id, got %v", err)
	}
	if err := catalog.SetStatus(ctx, cls.ID, "archived"); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestCatalogListPopular(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)

	for i := 0; i < 8; i++ {
		cls := &model.Class{
			Name:            fmt.Sprintf("Class %d", i),
			InstructorEmail: "jamie@example.com",
			Status:          model.ClassStatusApproved,
			Price:           10,
			Seats:           10,
			Student:         i,
		}
		if err := db.Create(cls).Error; err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	popular, err := catalog.ListPopular(context.Background())
	if err != nil {
		t.Fatalf("list popular failed: %v", err)
	}
	if len(popular) != 6 {
		t.Fatalf("expected the top 6 classes, got %d", len(popular))
	}
	for i := 1; i < len(popular); i++ {
		if popular[i].Student > popular[i-1].Student {
			t.Fatal("expected classes ordered by enrollment, descending")
		}
	}
}

func TestRoleOfUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	roles := NewRoleService(db)

	role, err := roles.RoleOf(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("expected no error for unknown email, got %v", err)
	}
	if role != "" {
		t.Fatalf("expected empty role, got %q", role)
	}
}

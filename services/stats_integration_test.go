package services

import (
	"context"
	"testing"

	"github.com/sportscamp/sportscamp-api/model"
)

func TestAdminStatsEmptyMarketplace(t *testing.T) {
	db := setupTestDB(t)
	stats := NewStatsService(db)

	got, err := stats.Admin(context.Background())
	if err != nil {
		t.Fatalf("admin stats failed: %v", err)
	}
	if got.Revenue != 0 || got.Orders != 0 || got.Classes != 0 {
		t.Fatalf("expected zero stats for an empty marketplace, got %+v", got)
	}
}

func TestInstructorStats(t *testing.T) {
	db := setupTestDB(t)
	stats := NewStatsService(db)
	ctx := context.Background()

	cls := createApprovedClass(t, db, 5, 3)
	payments := []model.Payment{
		{ID: "p1", BookingID: "b1", ClassID: cls.ID, StudentEmail: "a@example.com", InstructorEmail: cls.InstructorEmail, Amount: 25.50},
		{ID: "p2", BookingID: "b2", ClassID: cls.ID, StudentEmail: "b@example.com", InstructorEmail: cls.InstructorEmail, Amount: 25.50},
	}
	if err := db.Create(&payments).Error; err != nil {
		t.Fatalf("seed payments failed: %v", err)
	}

	got, err := stats.Instructor(ctx, cls.InstructorEmail)
	if err != nil {
		t.Fatalf("instructor stats failed: %v", err)
	}
	if got.Classes != 1 {
		t.Errorf("expected 1 class, got %d", got.Classes)
	}
	if got.Enrollments != 2 {
		t.Errorf("expected 2 enrollments, got %d", got.Enrollments)
	}
	if got.Revenue != 51.0 {
		t.Errorf("expected revenue 51.0, got %v", got.Revenue)
	}
	if got.TotalStudents != 3 {
		t.Errorf("expected 3 students, got %d", got.TotalStudents)
	}
}

func TestStudentStats(t *testing.T) {
	db := setupTestDB(t)
	stats := NewStatsService(db)
	ctx := context.Background()

	cls := createApprovedClass(t, db, 5, 0)
	bookings := NewBookingService(db)
	if _, err := bookings.Book(ctx, "s@example.com", cls.ID); err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if err := db.Create(&model.Payment{
		ID: "p1", BookingID: "other", ClassID: cls.ID,
		StudentEmail: "s@example.com", Amount: 12.25,
	}).Error; err != nil {
		t.Fatalf("seed payment failed: %v", err)
	}

	got, err := stats.Student(ctx, "s@example.com")
	if err != nil {
		t.Fatalf("student stats failed: %v", err)
	}
	if got.BookedClasses != 1 || got.EnrolledClasses != 1 {
		t.Fatalf("expected 1 booking and 1 enrollment, got %+v", got)
	}
	if got.TotalSpent != 12.25 {
		t.Fatalf("expected total spent 12.25, got %v", got.TotalSpent)
	}
}

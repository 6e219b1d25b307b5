package services

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/sportscamp/sportscamp-api/model"
	"github.com/sportscamp/sportscamp-api/services/stripe"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB connects to the test database and resets the tables the
// enrollment flow touches. Requires RUN_INTEGRATION_TESTS=true and a
// reachable Postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			host, os.Getenv("DB_USER_NAME"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), port)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Class{}, &model.Booking{}, &model.Payment{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	for _, table := range []string{"payments", "bookings", "classes", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset table %s: %v", table, err)
		}
	}

	return db
}

func createApprovedClass(t *testing.T, db *gorm.DB, seats, student int) *model.Class {
	t.Helper()
	cls := &model.Class{
		Name:            "Morning Yoga",
		InstructorName:  "Jamie Instructor",
		InstructorEmail: "jamie@example.com",
		Status:          model.ClassStatusApproved,
		Price:           25.50,
		Seats:           seats,
		Student:         student,
	}
	if err := db.Create(cls).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}
	return cls
}

// stubGateway satisfies PaymentGateway without hitting the network.
type stubGateway struct{}

func (stubGateway) CreateIntent(ctx context.Context, req stripe.IntentRequest) (*stripe.Intent, error) {
	return &stripe.Intent{
		ID:           "pi_stub",
		ClientSecret: "pi_stub_secret",
		Amount:       req.Amount,
		Currency:     req.Currency,
		Status:       "requires_payment_method",
	}, nil
}

func TestBookTwiceYieldsOneBookingAndOneConflict(t *testing.T) {
	db := setupTestDB(t)
	cls := createApprovedClass(t, db, 10, 0)
	svc := NewBookingService(db)
	ctx := context.Background()

	first, err := svc.Book(ctx, "student@example.com", cls.ID)
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected a booking id")
	}

	if _, err := svc.Book(ctx, "student@example.com", cls.ID); err != ErrAlreadyBooked {
		t.Fatalf("expected ErrAlreadyBooked on the second attempt, got %v", err)
	}

	var count int64
	if err := db.Model(&model.Booking{}).
		Where("class_id = ? AND student_email = ?", cls.ID, "student@example.com").
		Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one booking row, got %d", count)
	}
}

func TestBookRejectsUnapprovedClass(t *testing.T) {
	db := setupTestDB(t)
	cls := &model.Class{
		Name:            "Pending Class",
		InstructorEmail: "jamie@example.com",
		Status:          model.ClassStatusPending,
		Price:           10,
		Seats:           5,
	}
	if err := db.Create(cls).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}

	svc := NewBookingService(db)
	if _, err := svc.Book(context.Background(), "s@example.com", cls.ID); err != ErrClassNotBookable {
		t.Fatalf("expected ErrClassNotBookable, got %v", err)
	}
}

func TestBookUnknownClass(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBookingService(db)

	if _, err := svc.Book(context.Background(), "s@example.com", 99999); err != ErrClassNotFound {
		t.Fatalf("expected ErrClassNotFound, got %v", err)
	}
}

func TestSettleRetiresBookingAndIsAppendOnly(t *testing.T) {
	db := setupTestDB(t)
	cls := createApprovedClass(t, db, 10, 0)
	bookings := NewBookingService(db)
	payments := NewPaymentService(db, stubGateway{})
	ctx := context.Background()

	booking, err := bookings.Book(ctx, "student@example.com", cls.ID)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	first, err := payments.Settle(ctx, &model.Payment{
		BookingID:       booking.ID,
		ClassID:         cls.ID,
		ClassName:       cls.Name,
		StudentEmail:    "student@example.com",
		InstructorEmail: cls.InstructorEmail,
		Amount:          cls.Price,
	})
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if first.DeletedBookings != 1 {
		t.Fatalf("expected one retired booking, got %d", first.DeletedBookings)
	}

	// The same settle again: the insert is append-only, the booking is
	// already gone, and neither is an error.
	second, err := payments.Settle(ctx, &model.Payment{
		BookingID:    booking.ID,
		ClassID:      cls.ID,
		StudentEmail: "student@example.com",
		Amount:       cls.Price,
	})
	if err != nil {
		t.Fatalf("repeat settle failed: %v", err)
	}
	if second.DeletedBookings != 0 {
		t.Fatalf("expected zero retired bookings on repeat, got %d", second.DeletedBookings)
	}
	if second.PaymentID == first.PaymentID {
		t.Fatal("expected a fresh payment id per settle")
	}

	var paymentCount int64
	if err := db.Model(&model.Payment{}).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if paymentCount != 2 {
		t.Fatalf("expected two payment rows, got %d", paymentCount)
	}

	if _, err := bookings.GetByID(ctx, booking.ID, "student@example.com"); err != ErrBookingNotFound {
		t.Fatalf("expected the booking to be gone, got %v", err)
	}
}

func TestFinalizeSeatMovesOneSeat(t *testing.T) {
	db := setupTestDB(t)
	cls := createApprovedClass(t, db, 5, 10)
	payments := NewPaymentService(db, stubGateway{})

	updated, err := payments.FinalizeSeat(context.Background(), cls.ID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if updated.Seats != 4 || updated.Student != 11 {
		t.Fatalf("expected seats=4 student=11, got seats=%d student=%d", updated.Seats, updated.Student)
	}

	var fresh model.Class
	if err := db.First(&fresh, cls.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if fresh.Seats != 4 || fresh.Student != 11 {
		t.Fatalf("persisted seats=%d student=%d", fresh.Seats, fresh.Student)
	}
}

func TestFinalizeSeatUnknownClass(t *testing.T) {
	db := setupTestDB(t)
	payments := NewPaymentService(db, stubGateway{})

	if _, err := payments.FinalizeSeat(context.Background(), 99999); err != ErrClassNotFound {
		t.Fatalf("expected ErrClassNotFound, got %v", err)
	}
}

func TestFinalizeSeatRefusesFullClass(t *testing.T) {
	db := setupTestDB(t)
	cls := createApprovedClass(t, db, 0, 20)
	payments := NewPaymentService(db, stubGateway{})

	if _, err := payments.FinalizeSeat(context.Background(), cls.ID); err != ErrClassFull {
		t.Fatalf("expected ErrClassFull, got %v", err)
	}

	var fresh model.Class
	if err := db.First(&fresh, cls.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if fresh.Seats != 0 || fresh.Student != 20 {
		t.Fatalf("full class must not change, got seats=%d student=%d", fresh.Seats, fresh.Student)
	}
}

// Full enrollment flow: book, mint an intent, settle, finalize the seat.
func TestEnrollmentFlowEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	cls := createApprovedClass(t, db, 5, 10)
	bookings := NewBookingService(db)
	payments := NewPaymentService(db, stubGateway{})
	ctx := context.Background()

	booking, err := bookings.Book(ctx, "student@example.com", cls.ID)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	secret, err := payments.CreateIntent(ctx, cls.Price)
	if err != nil {
		t.Fatalf("intent failed: %v", err)
	}
	if secret == "" {
		t.Fatal("expected a client secret")
	}

	result, err := payments.Settle(ctx, &model.Payment{
		BookingID:       booking.ID,
		ClassID:         cls.ID,
		ClassName:       cls.Name,
		StudentEmail:    "student@example.com",
		InstructorEmail: cls.InstructorEmail,
		Amount:          cls.Price,
		TransactionID:   "pi_stub",
	})
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if result.DeletedBookings != 1 {
		t.Fatalf("expected the booking to be retired, got %d", result.DeletedBookings)
	}

	updated, err := payments.FinalizeSeat(ctx, cls.ID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if updated.Seats != 4 || updated.Student != 11 {
		t.Fatalf("expected seats=4 student=11, got seats=%d student=%d", updated.Seats, updated.Student)
	}

	enrolledPayments, enrolledClasses, err := payments.EnrolledClasses(ctx, "student@example.com")
	if err != nil {
		t.Fatalf("enrolled classes failed: %v", err)
	}
	if len(enrolledPayments) != 1 {
		t.Fatalf("expected one payment, got %d", len(enrolledPayments))
	}
	if len(enrolledClasses) != 1 || enrolledClasses[0].ID != cls.ID {
		t.Fatalf("expected the enrolled class to be returned")
	}

	remaining, err := bookings.ListFor(ctx, "student@example.com")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no live bookings after settle, got %d", len(remaining))
	}
}

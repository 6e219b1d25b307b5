package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sportscamp/sportscamp-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAlreadyBooked    = errors.New("already selected that class")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrClassNotBookable = errors.New("class is not open for booking")
)

// BookingService is the ledger of pre-payment seat reservations.
type BookingService struct {
	db *gorm.DB
}

// NewBookingService creates a new booking service
func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// Book records a student's intent to take a class. At most one live
// booking may exist per (class, student) pair: the duplicate probe runs
// inside a transaction with a row lock, and the unique index on
// (class_id, student_email) backstops any race the probe misses.
func (s *BookingService) Book(ctx context.Context, studentEmail string, classID uint) (*model.Booking, error) {
	var cls model.Class
	if err := s.db.WithContext(ctx).First(&cls, classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	if cls.Status != model.ClassStatusApproved {
		return nil, ErrClassNotBookable
	}

	booking := &model.Booking{
		ID:              uuid.NewString(),
		ClassID:         cls.ID,
		StudentEmail:    studentEmail,
		ClassName:       cls.Name,
		Image:           cls.Image,
		InstructorEmail: cls.InstructorEmail,
		Price:           cls.Price,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("class_id = ? AND student_email = ?", cls.ID, studentEmail).
			Take(&existing).Error
		if err == nil {
			return ErrAlreadyBooked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(booking).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadyBooked
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel removes a live booking owned by the student.
func (s *BookingService) Cancel(ctx context.Context, id, studentEmail string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND student_email = ?", id, studentEmail).
		Delete(&model.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ListFor returns the student's live bookings, newest first.
func (s *BookingService) ListFor(ctx context.Context, studentEmail string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Where("student_email = ?", studentEmail).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// GetByID returns a booking by id, filtered by owner.
func (s *BookingService) GetByID(ctx context.Context, id, studentEmail string) (*model.Booking, error) {
	var booking model.Booking
	err := s.db.WithContext(ctx).
		Where("id = ? AND student_email = ?", id, studentEmail).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

package services

import (
	"context"
	"errors"

	"github.com/sportscamp/sportscamp-api/model"
	"gorm.io/gorm"
)

var ErrInvalidStatus = errors.New("invalid class status")

// CatalogService is the read/write surface over class records.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListApproved returns all approved classes.
func (s *CatalogService) ListApproved(ctx context.Context) ([]model.Class, error) {
	var classes []model.Class
	err := s.db.WithContext(ctx).
		Where("status = ?", model.ClassStatusApproved).
		Order("created_at DESC").
		Find(&classes).Error
	return classes, err
}

// ListPopular returns the six approved classes with the most enrolled
// students.
func (s *CatalogService) ListPopular(ctx context.Context) ([]model.Class, error) {
	var classes []model.Class
	err := s.db.WithContext(ctx).
		Where("status = ?", model.ClassStatusApproved).
		Order("student DESC").
		Limit(6).
		Find(&classes).Error
	return classes, err
}

// ListAll returns every class regardless of status. Admin review view.
func (s *CatalogService) ListAll(ctx context.Context) ([]model.Class, error) {
	var classes []model.Class
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&classes).Error
	return classes, err
}

// ListByInstructor returns the classes an instructor owns.
func (s *CatalogService) ListByInstructor(ctx context.Context, email string) ([]model.Class, error) {
	var classes []model.Class
	err := s.db.WithContext(ctx).
		Where("instructor_email = ?", email).
		Order("created_at DESC").
		Find(&classes).Error
	return classes, err
}

// GetByID returns a single class.
func (s *CatalogService) GetByID(ctx context.Context, id uint) (*model.Class, error) {
	var cls model.Class
	err := s.db.WithContext(ctx).First(&cls, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cls, nil
}

// Create inserts a new class. Classes always start pending; only an
// admin moves them out of that status.
func (s *CatalogService) Create(ctx context.Context, cls *model.Class) error {
	cls.Status = model.ClassStatusPending
	cls.Student = 0
	return s.db.WithContext(ctx).Create(cls).Error
}

// SetStatus approves or denies a class.
func (s *CatalogService) SetStatus(ctx context.Context, id uint, status string) error {
	if status != model.ClassStatusApproved && status != model.ClassStatusDenied {
		return ErrInvalidStatus
	}
	res := s.db.WithContext(ctx).
		Model(&model.Class{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrClassNotFound
	}
	return nil
}

// SetSeatsAndPrice updates the remaining capacity and price of a class.
func (s *CatalogService) SetSeatsAndPrice(ctx context.Context, id uint, seats int, price float64) error {
	res := s.db.WithContext(ctx).
		Model(&model.Class{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"seats": seats, "price": price})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrClassNotFound
	}
	return nil
}

// SetFeedback attaches admin feedback to a class.
func (s *CatalogService) SetFeedback(ctx context.Context, id uint, feedback string) error {
	res := s.db.WithContext(ctx).
		Model(&model.Class{}).
		Where("id = ?", id).
		Update("feedback", feedback)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrClassNotFound
	}
	return nil
}

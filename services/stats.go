package services

import (
	"context"

	"github.com/sportscamp/sportscamp-api/model"
	"gorm.io/gorm"
)

// StatsService produces the dashboard aggregates.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a new stats service
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// AdminStats summarizes the whole marketplace.
type AdminStats struct {
	Revenue     float64 `json:"revenue"`
	Students    int64   `json:"students"`
	Instructors int64   `json:"instructors"`
	Classes     int64   `json:"classes"`
	Orders      int64   `json:"orders"`
}

// InstructorStats summarizes one instructor's classes and earnings.
type InstructorStats struct {
	Classes       int64   `json:"classes"`
	Enrollments   int64   `json:"enrollments"`
	Revenue       float64 `json:"revenue"`
	TotalStudents int64   `json:"total_students"`
}

// StudentStats summarizes one student's activity.
type StudentStats struct {
	BookedClasses   int64   `json:"booked_classes"`
	EnrolledClasses int64   `json:"enrolled_classes"`
	TotalSpent      float64 `json:"total_spent"`
}

// Admin computes the admin dashboard numbers.
func (s *StatsService) Admin(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.User{}).Where("role = ?", model.RoleStudent).Count(&stats.Students).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleInstructor).Count(&stats.Instructors).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Class{}).Count(&stats.Classes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Payment{}).Count(&stats.Orders).Error; err != nil {
		return nil, err
	}
	row := db.Model(&model.Payment{}).Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&stats.Revenue); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Instructor computes an instructor's dashboard numbers.
func (s *StatsService) Instructor(ctx context.Context, email string) (*InstructorStats, error) {
	var stats InstructorStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.Class{}).
		Where("instructor_email = ? AND status = ?", email, model.ClassStatusApproved).
		Count(&stats.Classes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Payment{}).
		Where("instructor_email = ?", email).
		Count(&stats.Enrollments).Error; err != nil {
		return nil, err
	}
	row := db.Model(&model.Payment{}).
		Where("instructor_email = ?", email).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&stats.Revenue); err != nil {
		return nil, err
	}
	row = db.Model(&model.Class{}).
		Where("instructor_email = ? AND status = ?", email, model.ClassStatusApproved).
		Select("COALESCE(SUM(student), 0)").Row()
	if err := row.Scan(&stats.TotalStudents); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Student computes a student's dashboard numbers.
func (s *StatsService) Student(ctx context.Context, email string) (*StudentStats, error) {
	var stats StudentStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.Booking{}).
		Where("student_email = ?", email).
		Count(&stats.BookedClasses).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Payment{}).
		Where("student_email = ?", email).
		Count(&stats.EnrolledClasses).Error; err != nil {
		return nil, err
	}
	row := db.Model(&model.Payment{}).
		Where("student_email = ?", email).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&stats.TotalSpent); err != nil {
		return nil, err
	}
	return &stats, nil
}

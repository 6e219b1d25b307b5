package model

import (
	"time"

	"gorm.io/gorm"
)

// Class statuses. A class is created pending and only an admin moves it
// to approved or denied.
const (
	ClassStatusPending  = "pending"
	ClassStatusApproved = "approved"
	ClassStatusDenied   = "denied"
)

// Class represents a sports class offered by an instructor
type Class struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Name            string         `gorm:"not null" json:"name"`
	Image           string         `gorm:"type:text" json:"image,omitempty"`
	InstructorName  string         `gorm:"not null" json:"instructor_name"`
	InstructorEmail string         `gorm:"not null;index" json:"instructor_email"`
	Status          string         `gorm:"type:varchar(20);default:'pending';index" json:"status"` // pending, approved, denied
	Price           float64        `gorm:"not null" json:"price"`
	Seats           int            `gorm:"not null;default:0" json:"seats"`   // remaining capacity, never below zero
	Student         int            `gorm:"not null;default:0" json:"student"` // cumulative enrolled count
	Feedback        string         `gorm:"type:text" json:"feedback,omitempty"`
}

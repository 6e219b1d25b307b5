package model

import "time"

// Booking is a student's reserved, not-yet-paid claim on one seat of a
// class. It is hard-deleted when it converts to a payment or is
// cancelled, so the unique index only ever covers live bookings.
type Booking struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	ClassID      uint      `gorm:"not null;uniqueIndex:idx_bookings_class_student" json:"class_id"`
	StudentEmail string    `gorm:"not null;uniqueIndex:idx_bookings_class_student" json:"student_email"`

	// Denormalized class fields so the student dashboard can render a
	// booking without a join.
	ClassName       string  `json:"class_name"`
	Image           string  `gorm:"type:text" json:"image,omitempty"`
	InstructorEmail string  `json:"instructor_email"`
	Price           float64 `json:"price"`
}

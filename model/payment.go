package model

import "time"

// Payment is the append-only record of a settled enrollment. Rows are
// never updated or deleted.
type Payment struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	BookingID       string    `gorm:"not null;index;type:varchar(36)" json:"booking_id"`
	ClassID         uint      `gorm:"not null;index" json:"class_id"`
	ClassName       string    `json:"class_name"`
	StudentEmail    string    `gorm:"not null;index" json:"student_email"`
	InstructorEmail string    `gorm:"index" json:"instructor_email"`
	Amount          float64   `gorm:"not null" json:"amount"`
	TransactionID   string    `gorm:"type:varchar(100)" json:"transaction_id"` // gateway payment intent reference
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

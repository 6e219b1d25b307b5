package model

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold. A user with no stored role is treated as a
// plain student by the catalog and as unprivileged by the access gate.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"` // Never expose password in JSON; empty for users created on first sign-in
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);default:'student'" json:"role"` // student, instructor, admin
	Photo        string         `gorm:"type:text" json:"photo,omitempty"`
	Gender       string         `gorm:"type:varchar(20)" json:"gender,omitempty"`
	Phone        string         `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address      string         `gorm:"type:text" json:"address,omitempty"`
}

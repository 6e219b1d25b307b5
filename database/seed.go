package database

import (
	"log"
	"os"

	"github.com/sportscamp/sportscamp-api/model"
	"github.com/sportscamp/sportscamp-api/utils/auth"
	"gorm.io/gorm"
)

// SeedAdmin creates the bootstrap admin account when the users table has
// no admin yet. Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD; the
// seed is skipped when they are unset.
func SeedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Seeded bootstrap admin:", email)
	return nil
}

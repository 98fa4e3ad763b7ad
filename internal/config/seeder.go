package config

import (
	"log"
	"os"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedSuperuser(); err != nil {
		log.Printf("⚠️ Superuser seeder skipped: %v", err)
	}
	if err := s.seedSchemes(); err != nil {
		log.Printf("⚠️ Scheme seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSuperuser seeds the initial superuser account.
// The password comes from SEED_SUPERUSER_PASSWORD, with a dev-only
// fallback. In production set the env var and rotate after first login.
func (s *Seeder) seedSuperuser() error {
	// Check if a superuser already exists
	var count int64
	s.db.Model(&models.User{}).Where("is_superuser = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	plain := os.Getenv("SEED_SUPERUSER_PASSWORD")
	if plain == "" {
		plain = "super123456"
		log.Println("⚠️ SEED_SUPERUSER_PASSWORD not set, using dev default")
	}

	hashedPassword, err := password.Hash(plain)
	if err != nil {
		return err
	}

	super := &models.User{
		Username:    "superuser",
		Email:       "super@consultease.in",
		Password:    hashedPassword,
		Role:        "SUPERUSER",
		IsSuperuser: true,
		IsActive:    true,
	}

	if err := s.db.Create(super).Error; err != nil {
		return err
	}

	log.Printf("✅ Superuser created: %s", super.Username)
	return nil
}

package config

import (
	"log"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/pkg/password"

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

	if err := s.seedSuperAdmin(); err != nil {
		log.Printf("⚠️ SuperAdmin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSuperAdmin seeds the bootstrap SuperAdmin account.
// Credentials come from SUPERADMIN_EMAIL / SUPERADMIN_PASSWORD; in
// production these must be rotated after first login.
func (s *Seeder) seedSuperAdmin() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&count)
	if count > 0 {
		return nil // SuperAdmin already exists
	}

	email := getEnv("SUPERADMIN_EMAIL", "admin@saccohub.io")
	plain := getEnv("SUPERADMIN_PASSWORD", "admin123456")

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "System Administrator",
		Email:    email,
		Password: hashed,
		Role:     models.RoleSuperAdmin,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ SuperAdmin user created: %s", admin.Email)
	return nil
}

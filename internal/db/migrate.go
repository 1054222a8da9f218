package db

import (
	"fangemeinschaft/internal/auth"   // Password hashing
	"fangemeinschaft/internal/domain" // Importing domain models

	"github.com/cockroachdb/errors" // Error wrapping
	"github.com/sirupsen/logrus"    // Structured logging
	"gorm.io/gorm"                  // GORM ORM library
)

// Models lists every table in migration order
var Models = []any{
	&domain.User{},
	&domain.News{},
	&domain.Match{},
	&domain.Player{},
	&domain.Staff{},
	&domain.Fanclub{},
	&domain.Formation{},
	&domain.FormationPlayer{},
	&domain.NextMatch{},
	&domain.NextMatchHistory{},
	&domain.Asset{},
	&domain.Settings{},
	&domain.AuditLog{},
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models...); err != nil {
		return errors.Wrap(err, "migration failed")
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// Seed creates the admin account and the default settings when missing.
// Running it twice changes nothing.
func Seed(db *gorm.DB, email, password string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Settings{}).Count(&n).Error; err != nil {
			return errors.Wrap(err, "count settings")
		}
		if n == 0 {
			settings := domain.DefaultSettings()
			if err := tx.Create(&settings).Error; err != nil {
				return errors.Wrap(err, "seed settings")
			}
			logrus.Info("Default settings created")
		}

		if email == "" {
			return nil // No admin account requested
		}
		email = auth.NormalizeEmail(email)
		if err := tx.Model(&domain.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return errors.Wrap(err, "count users")
		}
		if n > 0 {
			logrus.WithField("email", email).Info("Admin user already exists")
			return nil
		}
		if password == "" {
			return errors.New("admin password is required")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		admin := &domain.User{Email: email, Password: hash, FirstName: "Admin", Role: domain.RoleAdmin}
		if err := tx.Create(admin).Error; err != nil {
			return errors.Wrap(err, "seed admin user")
		}
		logrus.WithField("email", email).Info("Admin user created")
		return nil
	})
}

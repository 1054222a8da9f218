package main

import (
	"fangemeinschaft/internal/config" // Custom import path (Config)
	"fangemeinschaft/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Structured logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	defer db.Close(conn)

	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("%v", err)
	}
	// Seed the default settings and, when ADMIN_EMAIL is set, the admin account
	if err := db.Seed(conn, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logrus.Fatalf("seed failed: %v", err)
	}
}

package db

import (
	"context" // Ping deadline
	"time"    // Pool lifetimes

	"fangemeinschaft/internal/config" // Connection settings

	"github.com/cockroachdb/errors" // Error wrapping
	"github.com/sirupsen/logrus"    // Structured logging
	"gorm.io/driver/mysql"          // MySQL/MariaDB driver for GORM
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/logger"           // GORM log levels
)

// Open connects to the database and configures the connection pool
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true, // Map duplicate keys to gorm.ErrDuplicatedKey
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormCfg) // Open a connection to the database
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	sqlDB, err := db.DB() // Underlying database/sql pool
	if err != nil {
		return nil, errors.Wrap(err, "database pool")
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns) // Bounded pool shared by all requests
	sqlDB.SetMaxIdleConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Ping(ctx, db); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"host":           cfg.DBHost,
		"database":       cfg.DBName,
		"max_open_conns": cfg.DBMaxOpenConns,
	}).Info("Database connected")
	return db, nil
}

// Ping checks that the database answers
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "database pool")
	}
	return errors.Wrap(sqlDB.PingContext(ctx), "ping database")
}

// Close releases the connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "database pool")
	}
	return sqlDB.Close()
}

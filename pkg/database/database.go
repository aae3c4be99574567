package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"mail-calendar-agent/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the database selected by cfg.DBDriver.
func NewConnection(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	if cfg.DebugMode {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	switch cfg.DBDriver {
	case "postgres":
		return NewPostgresConnection(cfg.DatabaseURL, gormCfg)
	case "sqlite", "":
		return NewSQLiteConnection(cfg.DatabasePath, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
}

func NewPostgresConnection(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for postgres driver")
	}

	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to postgres: %w", err)
	}

	log.Println("[DB] Connected to PostgreSQL database")
	return db, nil
}

func NewSQLiteConnection(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if path != ":memory:" && path != "file::memory:" {
		dir := filepath.Dir(path)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("unable to create database directory: %w", err)
			}
			log.Printf("[DB] Created database directory: %s", dir)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}

	log.Println("[DB] Connected to SQLite database")
	return db, nil
}

// Migrate creates or updates the tables for the given models.
func Migrate(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("unable to migrate database: %w", err)
	}
	return nil
}

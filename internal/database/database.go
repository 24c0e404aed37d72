package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdg-garage/events-api/internal/config"
	"github.com/gdg-garage/events-api/internal/models"
	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	gormLogger := slogGorm.New(
		slogGorm.WithHandler(logger.Handler()),
		slogGorm.WithSlowThreshold(200*time.Millisecond),
	)

	db, err := gorm.Open(sqlite.Open(DSN(cfg.DatabasePath)), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// DSN turns a database file path into a data source name that enables foreign
// key enforcement on every pooled connection.
func DSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// Migrate enables foreign key enforcement and creates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Referenced tables first so the registration constraints resolve.
	err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.EventRegistration{})
	if err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	return nil
}

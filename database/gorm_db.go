package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the GORM connection.
type Options struct {
	LogLevel      logger.LogLevel
	SlowThreshold time.Duration
}

// ParseLogLevel maps a config string to a GORM log level. Unknown values map to Warn.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// DSN builds the sqlite connection string for path. Foreign keys are enforced,
// writers wait on each other instead of failing, and every transaction is
// opened with BEGIN IMMEDIATE so lookups made inside a write transaction see
// the latest committed rows.
func DSN(path string) string {
	params := []string{
		"_foreign_keys=1",
		"_busy_timeout=5000",
		"_journal_mode=WAL",
		"_txlock=immediate",
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&"))
}

// InitGormDB initializes and returns a GORM database instance
func InitGormDB(path string, opts Options, log hclog.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}),
		logger.Config{
			SlowThreshold:             opts.SlowThreshold,
			LogLevel:                  opts.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(DSN(path)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("GORM database initialized", "path", path)
	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}
	return sqlDB.Close()
}

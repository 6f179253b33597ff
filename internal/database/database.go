package database

import (
	"time"

	"station-api/internal/models"

	"github.com/kerimovok/go-pkg-database/sql"
	"github.com/kerimovok/go-pkg-utils/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB() error {
	gormConfig := sql.GormConfig{
		Host:                      config.GetEnv("DB_HOST"),
		User:                      config.GetEnv("DB_USER"),
		Password:                  config.GetEnv("DB_PASS"),
		Name:                      config.GetEnv("DB_NAME"),
		Port:                      config.GetEnv("DB_PORT"),
		SSLMode:                   "disable",
		Timezone:                  "UTC",
		MaxIdleConns:              10,
		MaxOpenConns:              50,
		ConnMaxLifetime:           30 * time.Minute,
		ConnMaxIdleTime:           10 * time.Minute,
		TranslateErrors:           true,
		LogLevel:                  logLevel(),
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	}

	// Open the connection and auto-migrate every attachment-bearing table
	db, err := sql.OpenGorm(gormConfig, models.All()...)
	if err != nil {
		return err
	}

	DB = db.DB
	return nil
}

// logLevel keeps SQL statements out of production logs; rows carry whole
// attachment payloads.
func logLevel() logger.LogLevel {
	if config.GetEnv("GO_ENV") == "production" {
		return logger.Warn
	}
	return logger.Info
}

// Package infra provides the Postgres connection used by the repository layer.
package infra

import (
	"errors"
	"time"

	"github.com/pshBlack/bank-backend/infra/repository"
	"github.com/pshBlack/bank-backend/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens a GORM Postgres connection with pool limits suited to
// a small service. Default per-statement transactions are disabled; atomicity
// is provided explicitly by the unit of work.
func NewDBConnection(cfg config.DB, appEnv string) (*gorm.DB, error) {
	if cfg.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return db, nil
}

// Migrate creates or updates the users, accounts and transactions tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&repository.User{},
		&repository.Account{},
		&repository.Transaction{},
	)
}

package database

import (
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/Ramsey-B/aster/config"
)

// Connect opens the match candidate store, retrying per config before
// giving up
func Connect(cfg config.Config, logger ectologger.Logger) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseUserName,
		cfg.DatabasePassword,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)

	attempts := cfg.DatabaseReconnectRetryCount
	if attempts < 1 {
		attempts = 1
	}

	var db *sqlx.DB
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err = sqlx.Connect(cfg.DatabaseDriver, dsn)
		if err == nil {
			break
		}
		logger.WithError(err).WithFields(map[string]any{
			"attempt": attempt,
		}).Warn("Failed to connect to database, retrying")
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
	}

	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	return db, nil
}

// Setup connects to the match candidate store, applies pending
// migrations, and wraps the connection for repository use
func Setup(cfg config.Config, logger ectologger.Logger) (DB, error) {
	db, err := Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	driver, err := postgres.WithInstance(db.DB, &postgres.Config{DatabaseName: cfg.DatabaseName})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	version := cfg.DatabaseMigrationVersion
	if version < 0 {
		version = 0
	}

	ms := NewMigrationService(logger, &MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(version),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	if err := ms.Migrate(cfg.DatabaseName, driver); err != nil {
		db.Close()
		return nil, err
	}

	return NewDatabaseInstance(db, logger), nil
}

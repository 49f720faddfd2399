// Package database opens the PostgreSQL connection and applies the embedded
// schema migrations. Both the bot and lessonctl start through it.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lessonbook/migrations"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	connectAttempts = 30
	retryDelay      = 2 * time.Second
)

// Connect connects to PostgreSQL, retrying while the server comes up
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	attempt := 0
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), connectAttempts-1),
		ctx,
	)

	db, err := backoff.RetryNotifyWithData(func() (*sql.DB, error) {
		attempt++
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}, policy, func(err error, _ time.Duration) {
		logger.Warn("Failed to reach database",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempt, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Migrate applies the embedded migrations
func Migrate(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"invoice-service/internal/config"
	"invoice-service/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

func connString(cfg config.PostgresConfig, dbName string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, dbName, cfg.SSLMode)
}

// ConnectAndCreateDB creates the target database when missing, connects to it, and
// applies the schema on first creation.
func ConnectAndCreateDB(cfg config.PostgresConfig) (*sqlx.DB, error) {
	log := logger.WithComponent("postgres")
	log.Info().Str("host", cfg.Host).Str("port", cfg.Port).Str("db", cfg.DBname).Msg("connecting to PostgreSQL")

	defaultDB, err := sql.Open("postgres", connString(cfg, "postgres"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to default postgres db: %w", err)
	}
	defer defaultDB.Close()

	var exists bool
	if err := defaultDB.QueryRow(`SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, cfg.DBname).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check if database exists: %w", err)
	}
	if !exists {
		if _, err := defaultDB.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.DBname)); err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", cfg.DBname, err)
		}
		log.Info().Str("db", cfg.DBname).Msg("database created")
	}

	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}

	if !exists {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := ApplySchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

func Connect(cfg config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", connString(cfg, cfg.DBname))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// ApplySchema runs the embedded schema. Safe to run repeatedly.
func ApplySchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	l := logger.WithComponent("postgres")
	l.Info().Msg("schema applied")
	return nil
}

// ConnectWithRetry keeps trying until the database answers or attempts run out.
func ConnectWithRetry(cfg config.PostgresConfig, attempts int, wait time.Duration) (*sqlx.DB, error) {
	log := logger.WithComponent("postgres")
	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := ConnectAndCreateDB(cfg)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", i).Dur("next_retry", wait).Msg("database connection failed")
		time.Sleep(wait)
	}
	return nil, fmt.Errorf("database unavailable after %d attempts: %w", attempts, lastErr)
}

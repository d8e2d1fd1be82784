package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/resumelane/resumelane/config"
	"go.uber.org/zap"
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint violation
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Profiles table: one row per identity, created lazily on first session check
		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			identity_id UUID NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL,
			display_name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(50) NOT NULL DEFAULT 'user',
			onboarded BOOLEAN NOT NULL DEFAULT false,
			desired_job_title VARCHAR(255) NOT NULL DEFAULT '',
			desired_location VARCHAR(255) NOT NULL DEFAULT '',
			employment_status VARCHAR(50) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Reviewer records: the public page backing a reviewer account
		CREATE TABLE IF NOT EXISTS reviewers (
			id UUID PRIMARY KEY,
			identity_id UUID NOT NULL UNIQUE,
			slug VARCHAR(100) NOT NULL UNIQUE,
			display_name VARCHAR(255) NOT NULL DEFAULT '',
			headline TEXT NOT NULL DEFAULT '',
			expertise VARCHAR(255) NOT NULL DEFAULT '',
			social_link VARCHAR(512) NOT NULL DEFAULT '',
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_reviewers_social_link
			ON reviewers(social_link) WHERE social_link <> '';

		-- Resumes table
		CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			identity_id UUID NOT NULL,
			title VARCHAR(255) NOT NULL,
			storage_key VARCHAR(512) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			admin_note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Reviews table
		CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY,
			resume_id UUID NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			reviewer_id UUID NOT NULL REFERENCES reviewers(id) ON DELETE CASCADE,
			score INTEGER NOT NULL CHECK (score >= 1 AND score <= 10),
			feedback TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Follows table keyed by (follower identity, reviewer identity)
		CREATE TABLE IF NOT EXISTS follows (
			follower_id UUID NOT NULL,
			reviewer_id UUID NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (follower_id, reviewer_id)
		);

		-- Experiences table scoped to the owning reviewer record
		CREATE TABLE IF NOT EXISTS experiences (
			id UUID PRIMARY KEY,
			reviewer_id UUID NOT NULL REFERENCES reviewers(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			company VARCHAR(255) NOT NULL,
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP,
			summary TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_profiles_identity_id ON profiles(identity_id);
		CREATE INDEX IF NOT EXISTS idx_reviewers_slug ON reviewers(slug);
		CREATE INDEX IF NOT EXISTS idx_reviewers_expertise ON reviewers(expertise);
		CREATE INDEX IF NOT EXISTS idx_resumes_identity_id ON resumes(identity_id);
		CREATE INDEX IF NOT EXISTS idx_resumes_status ON resumes(status);
		CREATE INDEX IF NOT EXISTS idx_reviews_resume_id ON reviews(resume_id);
		CREATE INDEX IF NOT EXISTS idx_reviews_reviewer_id ON reviews(reviewer_id);
		CREATE INDEX IF NOT EXISTS idx_follows_reviewer_id ON follows(reviewer_id);
		CREATE INDEX IF NOT EXISTS idx_experiences_reviewer_id ON experiences(reviewer_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}

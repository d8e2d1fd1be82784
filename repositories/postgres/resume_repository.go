package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/repositories"
	"go.uber.org/zap"
)

// ResumeRepository implements the repositories.ResumeRepository interface
type ResumeRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewResumeRepository creates a new resume repository
func NewResumeRepository(db *DB, logger *zap.Logger) repositories.ResumeRepository {
	return &ResumeRepository{
		db:     db,
		logger: logger,
	}
}

const resumeColumns = `id, identity_id, title, storage_key, status, admin_note, created_at, updated_at`

// Create creates a new resume
func (r *ResumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	query := `
		INSERT INTO resumes (id, identity_id, title, storage_key, status, admin_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		resume.ID,
		resume.IdentityID,
		resume.Title,
		resume.StorageKey,
		resume.Status,
		resume.AdminNote,
		resume.CreatedAt,
		resume.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}

	r.logger.Debug("resume created",
		zap.String("id", resume.ID.String()),
		zap.String("identity_id", resume.IdentityID.String()))
	return nil
}

// GetByID retrieves a resume by id
func (r *ResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	resume := &models.Resume{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&resume.ID,
		&resume.IdentityID,
		&resume.Title,
		&resume.StorageKey,
		&resume.Status,
		&resume.AdminNote,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("resume %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	return resume, nil
}

// GetByIdentityID retrieves all resumes owned by an identity
func (r *ResumeRepository) GetByIdentityID(ctx context.Context, identityID uuid.UUID) ([]*models.Resume, error) {
	query := `
		SELECT ` + resumeColumns + `
		FROM resumes
		WHERE identity_id = $1
		ORDER BY created_at DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query resumes: %w", err)
	}
	defer rows.Close()

	return scanResumes(rows)
}

// List retrieves resumes across all owners with an optional status filter
func (r *ResumeRepository) List(ctx context.Context, status models.ResumeStatus, limit, offset int) ([]*models.Resume, error) {
	query := `
		SELECT ` + resumeColumns + `
		FROM resumes
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query resumes: %w", err)
	}
	defer rows.Close()

	return scanResumes(rows)
}

func scanResumes(rows *sql.Rows) ([]*models.Resume, error) {
	var resumes []*models.Resume
	for rows.Next() {
		resume := &models.Resume{}
		err := rows.Scan(
			&resume.ID,
			&resume.IdentityID,
			&resume.Title,
			&resume.StorageKey,
			&resume.Status,
			&resume.AdminNote,
			&resume.CreatedAt,
			&resume.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, resume)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resume rows: %w", err)
	}

	return resumes, nil
}

// Update updates a resume
func (r *ResumeRepository) Update(ctx context.Context, resume *models.Resume) error {
	query := `
		UPDATE resumes
		SET title = $2,
		    status = $3,
		    admin_note = $4,
		    updated_at = $5
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		resume.ID,
		resume.Title,
		resume.Status,
		resume.AdminNote,
		resume.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("resume %s: %w", resume.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("resume updated", zap.String("id", resume.ID.String()))
	return nil
}

// SetStatusFrom flips a resume's status only while it still holds from.
// The status predicate makes the flip safe under concurrent claims: the
// second writer matches no row and gets ErrStatusChanged.
func (r *ResumeRepository) SetStatusFrom(ctx context.Context, id uuid.UUID, from, to models.ResumeStatus, updatedAt time.Time) error {
	query := `
		UPDATE resumes
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, from, to, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update resume status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("resume %s no longer %s: %w", id, from, repositories.ErrStatusChanged)
	}

	r.logger.Debug("resume status updated",
		zap.String("id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *ResumeRepository) WithTx(tx repositories.Transaction) repositories.ResumeRepository {
	return &ResumeRepository{
		db:     r.db,
		logger: r.logger,
	}
}

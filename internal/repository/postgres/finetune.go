package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/RMahshie/balcal/internal/repository"
	"github.com/RMahshie/balcal/pkg/models"
)

// PostgresFineTuneJobRepository implements FineTuneJobRepository for PostgreSQL
type PostgresFineTuneJobRepository struct {
	db *sql.DB
}

// NewPostgresFineTuneJobRepository creates a new PostgreSQL fine-tuning job repository
func NewPostgresFineTuneJobRepository(db *sql.DB) repository.FineTuneJobRepository {
	return &PostgresFineTuneJobRepository{db: db}
}

const jobColumns = `id, training_file_id, dataset_key, record_count, base_model, status, fine_tuned_model,
		       created_at, updated_at, finished_at`

// CreateJob inserts a fine-tuning job record
func (r *PostgresFineTuneJobRepository) CreateJob(ctx context.Context, job *models.FineTuneJob) error {
	query := `
		INSERT INTO fine_tune_jobs (id, training_file_id, dataset_key, record_count, base_model, status,
		                            fine_tuned_model, created_at, updated_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		job.ID,
		job.TrainingFileID,
		nullString(job.DatasetKey),
		job.RecordCount,
		job.BaseModel,
		job.Status,
		job.FineTunedModel,
		job.CreatedAt,
		job.UpdatedAt,
		job.FinishedAt)

	return err
}

// GetJob retrieves a fine-tuning job by provider ID
func (r *PostgresFineTuneJobRepository) GetJob(ctx context.Context, id string) (*models.FineTuneJob, error) {
	query := `SELECT ` + jobColumns + ` FROM fine_tune_jobs WHERE id = $1`
	return scanJob(r.db.QueryRowContext(ctx, query, id))
}

// UpdateJob refreshes the mutable fields of a job
func (r *PostgresFineTuneJobRepository) UpdateJob(ctx context.Context, job *models.FineTuneJob) error {
	query := `
		UPDATE fine_tune_jobs
		SET status = $1, fine_tuned_model = $2, finished_at = $3, updated_at = NOW()
		WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, job.Status, job.FineTunedModel, job.FinishedAt, job.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// LatestSucceeded returns the most recently finished successful job
func (r *PostgresFineTuneJobRepository) LatestSucceeded(ctx context.Context) (*models.FineTuneJob, error) {
	query := `SELECT ` + jobColumns + ` FROM fine_tune_jobs
		WHERE status = 'succeeded' AND fine_tuned_model IS NOT NULL
		ORDER BY finished_at DESC NULLS LAST
		LIMIT 1`
	return scanJob(r.db.QueryRowContext(ctx, query))
}

func scanJob(row *sql.Row) (*models.FineTuneJob, error) {
	var job models.FineTuneJob
	var datasetKey, fineTunedModel sql.NullString
	var finishedAt sql.NullTime

	err := row.Scan(
		&job.ID,
		&job.TrainingFileID,
		&datasetKey,
		&job.RecordCount,
		&job.BaseModel,
		&job.Status,
		&fineTunedModel,
		&job.CreatedAt,
		&job.UpdatedAt,
		&finishedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	job.DatasetKey = datasetKey.String
	if fineTunedModel.Valid {
		job.FineTunedModel = &fineTunedModel.String
	}
	if finishedAt.Valid {
		job.FinishedAt = &finishedAt.Time
	}

	return &job, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

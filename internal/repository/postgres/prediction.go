package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RMahshie/balcal/internal/repository"
	"github.com/RMahshie/balcal/pkg/models"
	"github.com/google/uuid"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *sql.DB
}

// NewPostgresPredictionRepository creates a new PostgreSQL prediction repository
func NewPostgresPredictionRepository(db *sql.DB) repository.PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Create inserts a new prediction record
func (r *PostgresPredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (id, status, progress, model, schema_name, prompt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		prediction.ID,
		prediction.Status,
		prediction.Progress,
		prediction.Model,
		prediction.Schema,
		prediction.Prompt,
		prediction.CreatedAt,
		prediction.UpdatedAt)

	return err
}

// GetByID retrieves a prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query := `
		SELECT id, status, progress, model, schema_name, prompt, raw_response, chart, error_message,
		       created_at, updated_at, completed_at
		FROM predictions
		WHERE id = $1`

	var prediction models.Prediction
	var rawResponse, chart, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&prediction.ID,
		&prediction.Status,
		&prediction.Progress,
		&prediction.Model,
		&prediction.Schema,
		&prediction.Prompt,
		&rawResponse,
		&chart,
		&errorMsg,
		&prediction.CreatedAt,
		&prediction.UpdatedAt,
		&completedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if rawResponse.Valid {
		prediction.RawResponse = &rawResponse.String
	}
	if chart.Valid {
		if err := json.Unmarshal([]byte(chart.String), &prediction.Chart); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chart: %w", err)
		}
	}
	if errorMsg.Valid {
		prediction.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		prediction.CompletedAt = &completedAt.Time
	}

	return &prediction, nil
}

// UpdateStatus updates the status and progress of a prediction
func (r *PostgresPredictionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE predictions
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError marks a prediction failed with the given message
func (r *PostgresPredictionRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE predictions
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// StoreResponse stores the raw model output
func (r *PostgresPredictionRepository) StoreResponse(ctx context.Context, id uuid.UUID, raw string) error {
	query := `
		UPDATE predictions
		SET raw_response = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, raw, id)
	return err
}

// StoreChart stores the decoded drop chart
func (r *PostgresPredictionRepository) StoreChart(ctx context.Context, id uuid.UUID, chart models.DropChart) error {
	data, err := json.Marshal(chart)
	if err != nil {
		return fmt.Errorf("failed to marshal chart: %w", err)
	}

	query := `
		UPDATE predictions
		SET chart = $1, updated_at = NOW()
		WHERE id = $2`

	_, err = r.db.ExecContext(ctx, query, string(data), id)
	return err
}

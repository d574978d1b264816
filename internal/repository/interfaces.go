package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/balcal/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// PredictionRepository defines the interface for prediction data operations
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreResponse(ctx context.Context, id uuid.UUID, raw string) error
	StoreChart(ctx context.Context, id uuid.UUID, chart models.DropChart) error
}

// FineTuneJobRepository defines the interface for fine-tuning job operations
type FineTuneJobRepository interface {
	CreateJob(ctx context.Context, job *models.FineTuneJob) error
	GetJob(ctx context.Context, id string) (*models.FineTuneJob, error)
	UpdateJob(ctx context.Context, job *models.FineTuneJob) error
	LatestSucceeded(ctx context.Context) (*models.FineTuneJob, error)
}

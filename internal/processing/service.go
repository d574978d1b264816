package processing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/balcal/internal/ballistic"
	"github.com/RMahshie/balcal/internal/predictor"
	"github.com/RMahshie/balcal/internal/repository"
	"github.com/RMahshie/balcal/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type PredictionService interface {
	CreatePrediction(ctx context.Context, input models.BallisticInput) (*models.Prediction, error)
	ProcessPrediction(ctx context.Context, predictionID uuid.UUID) error
}

type processingService struct {
	predictor  *predictor.Predictor
	repository repository.PredictionRepository
	model      string
}

func NewProcessingService(p *predictor.Predictor, repo repository.PredictionRepository, model string) PredictionService {
	return &processingService{
		predictor:  p,
		repository: repo,
		model:      model,
	}
}

// CreatePrediction encodes input and stores a pending prediction.
// A *ballistic.MissingFieldError is returned before anything is stored.
func (s *processingService) CreatePrediction(ctx context.Context, input models.BallisticInput) (*models.Prediction, error) {
	prompt, err := s.predictor.Encode(input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	prediction := &models.Prediction{
		ID:        uuid.New().String(),
		Status:    models.StatusPending,
		Progress:  0,
		Model:     s.model,
		Schema:    s.predictor.Schema().Name,
		Prompt:    prompt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.Create(ctx, prediction); err != nil {
		return nil, fmt.Errorf("failed to create prediction: %w", err)
	}

	return prediction, nil
}

// ProcessPrediction queries the model for a stored prediction and records the outcome.
// Every failure after the prediction is marked processing also marks it failed and is returned.
func (s *processingService) ProcessPrediction(ctx context.Context, predictionID uuid.UUID) error {
	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, predictionID, models.StatusProcessing, 10); err != nil {
		return err
	}

	// Step 2: Get prediction details
	prediction, err := s.repository.GetByID(ctx, predictionID)
	if err != nil {
		return s.fail(ctx, predictionID, "Failed to load prediction", err)
	}

	// Step 3: Query the model
	if err := s.repository.UpdateStatus(ctx, predictionID, models.StatusProcessing, 50); err != nil {
		return s.fail(ctx, predictionID, "Failed to update progress", err)
	}

	result, err := s.predictor.PredictPrompt(ctx, prediction.Prompt)
	if result != nil {
		if storeErr := s.repository.StoreResponse(ctx, predictionID, result.Raw); storeErr != nil {
			return s.fail(ctx, predictionID, "Failed to store model output", storeErr)
		}
	}
	if err != nil {
		return s.fail(ctx, predictionID, failureMessage(err), err)
	}

	// Step 4: Store the chart
	if err := s.repository.UpdateStatus(ctx, predictionID, models.StatusProcessing, 80); err != nil {
		return s.fail(ctx, predictionID, "Failed to update progress", err)
	}
	if err := s.repository.StoreChart(ctx, predictionID, result.Chart); err != nil {
		return s.fail(ctx, predictionID, "Failed to store drop chart", err)
	}

	// Step 5: Mark complete
	if err := s.repository.UpdateStatus(ctx, predictionID, models.StatusCompleted, 100); err != nil {
		return s.fail(ctx, predictionID, "Failed to complete prediction", err)
	}

	log.Info().Str("predictionID", predictionID.String()).Int("entries", len(result.Chart)).Msg("Prediction completed")
	return nil
}

// fail marks the prediction failed and returns err
func (s *processingService) fail(ctx context.Context, predictionID uuid.UUID, msg string, err error) error {
	log.Error().Err(err).Str("predictionID", predictionID.String()).Msg(msg)

	if updateErr := s.repository.UpdateError(ctx, predictionID, fmt.Sprintf("%s: %v", msg, err)); updateErr != nil {
		log.Error().Err(updateErr).Str("predictionID", predictionID.String()).Msg("Failed to record prediction failure")
	}
	return err
}

func failureMessage(err error) string {
	var parseErr *ballistic.ParseError
	if errors.As(err, &parseErr) {
		return "Failed to parse model output"
	}
	return "Model request failed"
}

package handlers

import (
	"context"
	"errors"

	"github.com/RMahshie/balcal/internal/ballistic"
	"github.com/RMahshie/balcal/internal/llm"
	"github.com/RMahshie/balcal/internal/processing"
	"github.com/RMahshie/balcal/internal/repository"
	"github.com/RMahshie/balcal/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PredictionHandler handles prediction-related HTTP requests
type PredictionHandler struct {
	repo          repository.PredictionRepository
	processingSvc processing.PredictionService
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(repo repository.PredictionRepository, processingSvc processing.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		repo:          repo,
		processingSvc: processingSvc,
	}
}

// CreatePrediction stores a prediction and runs it, inline when sync is set
func (h *PredictionHandler) CreatePrediction(ctx context.Context, req *models.CreatePredictionRequest) (*models.CreatePredictionResponse, error) {
	prediction, err := h.processingSvc.CreatePrediction(ctx, req.Body.Input())
	if err != nil {
		var missing *ballistic.MissingFieldError
		if errors.As(err, &missing) {
			return nil, huma.Error400BadRequest(missing.Error(), err)
		}
		return nil, huma.Error500InternalServerError("Failed to create prediction", err)
	}
	log.Info().Str("predictionID", prediction.ID).Bool("sync", req.Sync).Msg("Prediction created")

	predictionID, err := uuid.Parse(prediction.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Invalid prediction ID", err)
	}

	if !req.Sync {
		// Run in background (don't wait for completion); failures are recorded on the prediction
		go func() {
			if err := h.processingSvc.ProcessPrediction(context.Background(), predictionID); err != nil {
				log.Error().Err(err).Str("predictionID", predictionID.String()).Msg("Background prediction failed")
			}
		}()
		return &models.CreatePredictionResponse{Body: responseBody(prediction)}, nil
	}

	if err := h.processingSvc.ProcessPrediction(ctx, predictionID); err != nil {
		return nil, predictionError(err)
	}

	completed, err := h.repo.GetByID(ctx, predictionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load prediction", err)
	}

	return &models.CreatePredictionResponse{Body: responseBody(completed)}, nil
}

// GetPrediction returns the current state of a prediction
func (h *PredictionHandler) GetPrediction(ctx context.Context, req *models.GetPredictionRequest) (*models.GetPredictionResponse, error) {
	predictionID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid prediction ID", err)
	}

	prediction, err := h.repo.GetByID(ctx, predictionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, huma.Error404NotFound("Prediction not found", err)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load prediction", err)
	}

	return &models.GetPredictionResponse{Body: responseBody(prediction)}, nil
}

// predictionError maps pipeline failures to HTTP errors
func predictionError(err error) error {
	var parseErr *ballistic.ParseError
	if errors.As(err, &parseErr) {
		return huma.Error422UnprocessableEntity("Model output could not be parsed as a drop chart", err, &huma.ErrorDetail{
			Message:  "raw model output",
			Location: "response",
			Value:    parseErr.Raw,
		})
	}

	var svcErr *llm.ServiceError
	if errors.As(err, &svcErr) {
		return huma.Error502BadGateway("Model service request failed", err)
	}

	return huma.Error500InternalServerError("Prediction failed", err)
}

func responseBody(p *models.Prediction) models.PredictionResponseBody {
	return models.PredictionResponseBody{
		ID:          p.ID,
		Status:      p.Status,
		Progress:    p.Progress,
		Message:     generateStatusMessage(p.Status, p.Progress),
		Model:       p.Model,
		Prompt:      p.Prompt,
		RawResponse: p.RawResponse,
		Chart:       p.Chart,
		Error:       p.ErrorMsg,
		CreatedAt:   p.CreatedAt,
		CompletedAt: p.CompletedAt,
	}
}

// generateStatusMessage creates a human-readable status message
func generateStatusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Prediction queued..."
	case models.StatusProcessing:
		if progress < 50 {
			return "Preparing prompt..."
		} else if progress < 80 {
			return "Waiting for model response..."
		} else {
			return "Parsing drop chart..."
		}
	case models.StatusCompleted:
		return "Prediction complete!"
	case models.StatusFailed:
		return "Prediction failed."
	default:
		return "Unknown status"
	}
}

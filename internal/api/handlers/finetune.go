package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/RMahshie/balcal/internal/finetune"
	"github.com/RMahshie/balcal/internal/llm"
	"github.com/RMahshie/balcal/internal/storage"
	"github.com/RMahshie/balcal/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FineTuneHandler handles dataset and fine-tuning job requests
type FineTuneHandler struct {
	svc       finetune.Service
	s3Service storage.S3Service
}

// NewFineTuneHandler creates a new fine-tuning handler
func NewFineTuneHandler(svc finetune.Service, s3Service storage.S3Service) *FineTuneHandler {
	return &FineTuneHandler{
		svc:       svc,
		s3Service: s3Service,
	}
}

// CreateDatasetUpload returns a pre-signed URL for uploading a raw dataset
func (h *FineTuneHandler) CreateDatasetUpload(ctx context.Context, req *models.CreateDatasetUploadRequest) (*models.CreateDatasetUploadResponse, error) {
	key := fmt.Sprintf("datasets/uploads/%s/%s", uuid.New(), path.Base(req.Body.Name))

	uploadURL, err := h.s3Service.GenerateUploadURL(ctx, key, req.Body.MimeType)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidContentType) {
			return nil, huma.Error400BadRequest("Dataset format not supported", err)
		}
		return nil, huma.Error500InternalServerError("Failed to prepare upload", err)
	}
	log.Info().Str("key", key).Msg("Dataset upload URL generated")

	resp := &models.CreateDatasetUploadResponse{}
	resp.Body.Key = key
	resp.Body.UploadURL = uploadURL
	resp.Body.ExpiresIn = int(storage.UploadURLExpiry.Seconds())
	return resp, nil
}

// CreateFineTuneJob reformats a dataset and submits it for fine-tuning
func (h *FineTuneHandler) CreateFineTuneJob(ctx context.Context, req *models.CreateFineTuneJobRequest) (*models.FineTuneJobResponse, error) {
	var job *models.FineTuneJob
	var err error

	switch {
	case req.Body.DatasetKey != "":
		job, err = h.svc.SubmitStored(ctx, req.Body.Name, req.Body.DatasetKey)
	case req.Body.Dataset != "":
		job, err = h.svc.Submit(ctx, req.Body.Name, strings.NewReader(req.Body.Dataset))
	default:
		return nil, huma.Error400BadRequest("Either dataset or dataset_key is required")
	}

	if err != nil {
		if errors.Is(err, finetune.ErrInvalidDataset) {
			return nil, huma.Error400BadRequest("Invalid training dataset", err)
		}
		return nil, serviceError("Failed to submit fine-tuning job", err)
	}

	return &models.FineTuneJobResponse{Body: job}, nil
}

// GetFineTuneJob returns the provider's current view of a job
func (h *FineTuneHandler) GetFineTuneJob(ctx context.Context, req *models.GetFineTuneJobRequest) (*models.FineTuneJobResponse, error) {
	job, err := h.svc.Status(ctx, req.ID)
	if err != nil {
		return nil, serviceError("Failed to get fine-tuning job", err)
	}

	return &models.FineTuneJobResponse{Body: job}, nil
}

func serviceError(msg string, err error) error {
	var svcErr *llm.ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.StatusCode == http.StatusNotFound {
			return huma.Error404NotFound("Fine-tuning job not found", err)
		}
		return huma.Error502BadGateway(msg, err)
	}
	return huma.Error500InternalServerError(msg, err)
}

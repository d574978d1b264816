package finetune

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/RMahshie/balcal/internal/dataset"
	"github.com/RMahshie/balcal/internal/llm"
	"github.com/RMahshie/balcal/internal/repository"
	"github.com/RMahshie/balcal/internal/storage"
	"github.com/RMahshie/balcal/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultBaseModel is the model fine-tuned when none is configured
const DefaultBaseModel = "gpt-3.5-turbo"

// ErrInvalidDataset wraps every dataset read or reformat failure
var ErrInvalidDataset = errors.New("invalid dataset")

// Provider is the hosted fine-tuning API
type Provider interface {
	UploadFile(ctx context.Context, name string, data []byte, purpose string) (*llm.File, error)
	CreateFineTuneJob(ctx context.Context, trainingFileID, model string) (*llm.FineTuneJob, error)
	GetFineTuneJob(ctx context.Context, jobID string) (*llm.FineTuneJob, error)
}

type Service interface {
	Submit(ctx context.Context, name string, r io.Reader) (*models.FineTuneJob, error)
	SubmitStored(ctx context.Context, name, key string) (*models.FineTuneJob, error)
	Status(ctx context.Context, jobID string) (*models.FineTuneJob, error)
}

type service struct {
	provider  Provider
	s3        storage.S3Service
	repo      repository.FineTuneJobRepository
	baseModel string
}

// NewService creates a fine-tuning service. s3 and repo may be nil, in which
// case datasets are not archived and jobs are not recorded.
func NewService(provider Provider, s3Service storage.S3Service, repo repository.FineTuneJobRepository, baseModel string) Service {
	if baseModel == "" {
		baseModel = DefaultBaseModel
	}
	return &service{
		provider:  provider,
		s3:        s3Service,
		repo:      repo,
		baseModel: baseModel,
	}
}

// Reformat converts a generated dataset to chart-text form, returning the record count
func Reformat(r io.Reader, w io.Writer) (int, error) {
	records, err := reformat(r)
	if err != nil {
		return 0, err
	}
	if err := dataset.Write(w, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func reformat(r io.Reader) ([]dataset.Record, error) {
	records, err := dataset.Read(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrInvalidDataset)
	}

	records, err = dataset.Reformat(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return records, nil
}

// Submit reformats a dataset, uploads it and starts a fine-tuning job
func (s *service) Submit(ctx context.Context, name string, r io.Reader) (*models.FineTuneJob, error) {
	// Step 1: Reformat
	log.Info().Str("dataset", name).Msg("Reformatting dataset")
	records, err := reformat(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dataset.Write(&buf, records); err != nil {
		return nil, err
	}
	log.Info().Str("dataset", name).Int("records", len(records)).Msg("Dataset reformatted")

	// Step 2: Archive the reformatted dataset
	var datasetKey string
	if s.s3 != nil {
		datasetKey = fmt.Sprintf("datasets/%s.jsonl", uuid.New())
		if err := s.s3.UploadFile(ctx, datasetKey, "application/jsonl", buf.Bytes()); err != nil {
			return nil, fmt.Errorf("failed to archive dataset: %w", err)
		}
		log.Info().Str("key", datasetKey).Msg("Dataset archived")
	}

	// Step 3: Upload the training file
	file, err := s.provider.UploadFile(ctx, name, buf.Bytes(), llm.PurposeFineTune)
	if err != nil {
		return nil, err
	}
	log.Info().Str("fileID", file.ID).Msg("Training file uploaded")

	// Step 4: Create the fine-tuning job
	providerJob, err := s.provider.CreateFineTuneJob(ctx, file.ID, s.baseModel)
	if err != nil {
		return nil, err
	}
	log.Info().Str("jobID", providerJob.ID).Str("model", s.baseModel).Msg("Fine-tuning job created")

	job := toModel(providerJob)
	job.TrainingFileID = file.ID
	job.DatasetKey = datasetKey
	job.RecordCount = len(records)
	if job.BaseModel == "" {
		job.BaseModel = s.baseModel
	}

	// Step 5: Record the job
	if s.repo != nil {
		if err := s.repo.CreateJob(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to record job: %w", err)
		}
	}

	return job, nil
}

// SubmitStored submits a dataset previously uploaded to object storage
func (s *service) SubmitStored(ctx context.Context, name, key string) (*models.FineTuneJob, error) {
	if s.s3 == nil {
		return nil, fmt.Errorf("object storage not configured")
	}

	data, err := s.s3.DownloadFile(ctx, key)
	if err != nil {
		return nil, err
	}

	return s.Submit(ctx, name, bytes.NewReader(data))
}

// Status fetches the job from the provider and refreshes the stored record.
// Jobs created outside this service are recorded on first lookup.
func (s *service) Status(ctx context.Context, jobID string) (*models.FineTuneJob, error) {
	providerJob, err := s.provider.GetFineTuneJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job := toModel(providerJob)

	if s.repo == nil {
		return job, nil
	}

	stored, err := s.repo.GetJob(ctx, jobID)
	if errors.Is(err, repository.ErrNotFound) {
		if err := s.repo.CreateJob(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to record job: %w", err)
		}
		return job, nil
	}
	if err != nil {
		return nil, err
	}

	job.DatasetKey = stored.DatasetKey
	job.RecordCount = stored.RecordCount
	if job.TrainingFileID == "" {
		job.TrainingFileID = stored.TrainingFileID
	}
	if err := s.repo.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	log.Info().Str("jobID", job.ID).Str("status", job.Status).Msg("Fine-tuning job refreshed")
	return job, nil
}

func toModel(j *llm.FineTuneJob) *models.FineTuneJob {
	now := time.Now()
	job := &models.FineTuneJob{
		ID:             j.ID,
		TrainingFileID: j.TrainingFile,
		BaseModel:      j.Model,
		Status:         j.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if j.CreatedAt > 0 {
		job.CreatedAt = time.Unix(j.CreatedAt, 0).UTC()
	}
	if j.FinishedAt != nil {
		finished := time.Unix(*j.FinishedAt, 0).UTC()
		job.FinishedAt = &finished
	}
	if j.FineTunedModel != "" {
		model := j.FineTunedModel
		job.FineTunedModel = &model
	}
	return job
}

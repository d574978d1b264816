package llm

import (
	"bytes"
	"context"

	"github.com/openai/openai-go"
)

// PurposeFineTune marks an uploaded file as fine-tuning training data
const PurposeFineTune = "fine-tune"

// Fine-tuning job states reported by the provider
const (
	JobStatusValidatingFiles = "validating_files"
	JobStatusQueued          = "queued"
	JobStatusRunning         = "running"
	JobStatusSucceeded       = "succeeded"
	JobStatusFailed          = "failed"
	JobStatusCancelled       = "cancelled"
)

// File is an uploaded file object
type File struct {
	ID        string `json:"id"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
}

// FineTuneJob is a fine-tuning job object
type FineTuneJob struct {
	ID             string `json:"id"`
	Model          string `json:"model"`
	CreatedAt      int64  `json:"created_at"`
	FinishedAt     *int64 `json:"finished_at"`
	FineTunedModel string `json:"fine_tuned_model"`
	Status         string `json:"status"`
	TrainingFile   string `json:"training_file"`
	Error          *JobError `json:"error"`
}

// JobError describes why a fine-tuning job failed
type JobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Done reports whether the job reached a terminal state
func (j *FineTuneJob) Done() bool {
	switch j.Status {
	case JobStatusSucceeded, JobStatusFailed, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// UploadFile uploads data as a multipart file with the given purpose
func (c *Client) UploadFile(ctx context.Context, name string, data []byte, purpose string) (*File, error) {
	file, err := c.client.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(bytes.NewReader(data), name, "application/jsonl"),
		Purpose: openai.FilePurpose(purpose),
	})
	if err != nil {
		return nil, serviceError("upload file", err)
	}

	return &File{
		ID:        file.ID,
		Bytes:     file.Bytes,
		CreatedAt: file.CreatedAt,
		Filename:  file.Filename,
		Purpose:   string(file.Purpose),
	}, nil
}

// CreateFineTuneJob starts fine-tuning model on an uploaded training file
func (c *Client) CreateFineTuneJob(ctx context.Context, trainingFileID, model string) (*FineTuneJob, error) {
	job, err := c.client.FineTuning.Jobs.New(ctx, openai.FineTuningJobNewParams{
		Model:        openai.FineTuningJobNewParamsModel(model),
		TrainingFile: trainingFileID,
	})
	if err != nil {
		return nil, serviceError("create fine-tune job", err)
	}
	return toJob(job), nil
}

// GetFineTuneJob retrieves a fine-tuning job by ID
func (c *Client) GetFineTuneJob(ctx context.Context, jobID string) (*FineTuneJob, error) {
	job, err := c.client.FineTuning.Jobs.Get(ctx, jobID)
	if err != nil {
		return nil, serviceError("get fine-tune job", err)
	}
	return toJob(job), nil
}

func toJob(j *openai.FineTuningJob) *FineTuneJob {
	job := &FineTuneJob{
		ID:             j.ID,
		Model:          j.Model,
		CreatedAt:      j.CreatedAt,
		FineTunedModel: j.FineTunedModel,
		Status:         string(j.Status),
		TrainingFile:   j.TrainingFile,
	}
	// The SDK reports a null finish time as zero
	if j.FinishedAt != 0 {
		finished := j.FinishedAt
		job.FinishedAt = &finished
	}
	if j.Error.Message != "" {
		job.Error = &JobError{Code: j.Error.Code, Message: j.Error.Message}
	}
	return job
}

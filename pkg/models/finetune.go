package models

import (
	"time"
)

// FineTuneJob tracks a submitted fine-tuning job
type FineTuneJob struct {
	ID             string     `json:"id" doc:"Provider job ID"`
	TrainingFileID string     `json:"training_file_id" doc:"Provider ID of the uploaded training file"`
	DatasetKey     string     `json:"dataset_key,omitempty" doc:"Object storage key of the submitted dataset"`
	RecordCount    int        `json:"record_count" doc:"Number of training records submitted"`
	BaseModel      string     `json:"base_model" doc:"Model being fine-tuned"`
	Status         string     `json:"status" doc:"Provider job status"`
	FineTunedModel *string    `json:"fine_tuned_model,omitempty" doc:"Resulting model once the job succeeds"`
	CreatedAt      time.Time  `json:"created_at" doc:"Job creation timestamp"`
	UpdatedAt      time.Time  `json:"updated_at" doc:"Last status refresh"`
	FinishedAt     *time.Time `json:"finished_at,omitempty" doc:"Job completion timestamp"`
}

// CreateFineTuneJobRequest represents a request to submit a training dataset.
// Either Dataset or DatasetKey must be set.
type CreateFineTuneJobRequest struct {
	Body struct {
		Name       string `json:"name" minLength:"1" maxLength:"100" required:"true" doc:"Dataset file name"`
		Dataset    string `json:"dataset,omitempty" doc:"Newline-delimited JSON chat records"`
		DatasetKey string `json:"dataset_key,omitempty" doc:"Object storage key of a previously uploaded dataset"`
	}
}

// CreateDatasetUploadRequest represents a request for a dataset upload URL
type CreateDatasetUploadRequest struct {
	Body struct {
		Name     string `json:"name" minLength:"1" maxLength:"100" required:"true" doc:"Dataset file name"`
		MimeType string `json:"mime_type" enum:"application/jsonl,application/x-ndjson,application/json" required:"true" doc:"Dataset MIME type"`
	}
}

// CreateDatasetUploadResponse carries a pre-signed dataset upload URL
type CreateDatasetUploadResponse struct {
	Body struct {
		Key       string `json:"key" doc:"Object storage key to reference when submitting"`
		UploadURL string `json:"upload_url" doc:"Pre-signed S3 URL for file upload"`
		ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
	}
}

// FineTuneJobResponse represents a fine-tuning job
type FineTuneJobResponse struct {
	Body *FineTuneJob
}

// GetFineTuneJobRequest represents a request to refresh a job's status
type GetFineTuneJobRequest struct {
	ID string `path:"id" doc:"Provider job ID"`
}

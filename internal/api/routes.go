package api

import (
	"net/http"

	"github.com/RMahshie/balcal/internal/api/handlers"
	"github.com/RMahshie/balcal/internal/finetune"
	"github.com/RMahshie/balcal/internal/processing"
	"github.com/RMahshie/balcal/internal/repository"
	"github.com/RMahshie/balcal/internal/storage"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, predictionRepo repository.PredictionRepository, processingSvc processing.PredictionService, finetuneSvc finetune.Service, s3Service storage.S3Service) {
	// Initialize handlers
	predictionHandler := handlers.NewPredictionHandler(predictionRepo, processingSvc)
	finetuneHandler := handlers.NewFineTuneHandler(finetuneSvc, s3Service)

	// Register prediction routes
	huma.Register(api, huma.Operation{
		OperationID:   "createPrediction",
		Method:        http.MethodPost,
		Path:          "/api/predictions",
		Summary:       "Create a drop chart prediction",
		Description:   "Encodes ballistic parameters into a prompt and asks the fine-tuned model for a drop chart. Runs in the background unless sync=true.",
		Tags:          []string{"Predictions"},
		DefaultStatus: http.StatusCreated,
	}, predictionHandler.CreatePrediction)

	huma.Register(api, huma.Operation{
		OperationID: "getPrediction",
		Method:      http.MethodGet,
		Path:        "/api/predictions/{id}",
		Summary:     "Get prediction",
		Description: "Returns the status, raw model output and decoded drop chart of a prediction",
		Tags:        []string{"Predictions"},
	}, predictionHandler.GetPrediction)

	// Register fine-tuning routes
	huma.Register(api, huma.Operation{
		OperationID:   "createDatasetUpload",
		Method:        http.MethodPost,
		Path:          "/api/datasets",
		Summary:       "Create dataset upload",
		Description:   "Returns a pre-signed URL for uploading a generated training dataset",
		Tags:          []string{"Fine-tuning"},
		DefaultStatus: http.StatusCreated,
	}, finetuneHandler.CreateDatasetUpload)

	huma.Register(api, huma.Operation{
		OperationID:   "createFineTuneJob",
		Method:        http.MethodPost,
		Path:          "/api/finetune/jobs",
		Summary:       "Submit fine-tuning job",
		Description:   "Reformats a dataset to chart-text form, uploads it and starts a fine-tuning job",
		Tags:          []string{"Fine-tuning"},
		DefaultStatus: http.StatusCreated,
	}, finetuneHandler.CreateFineTuneJob)

	huma.Register(api, huma.Operation{
		OperationID: "getFineTuneJob",
		Method:      http.MethodGet,
		Path:        "/api/finetune/jobs/{id}",
		Summary:     "Get fine-tuning job",
		Description: "Refreshes and returns the provider status of a fine-tuning job",
		Tags:        []string{"Fine-tuning"},
	}, finetuneHandler.GetFineTuneJob)
}

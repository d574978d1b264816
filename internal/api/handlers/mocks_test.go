package handlers

import (
	"context"
	"io"

	"github.com/RMahshie/balcal/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPredictionRepository implements repository.PredictionRepository for testing
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	args := m.Called(ctx, prediction)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	args := m.Called(ctx, id)
	prediction, _ := args.Get(0).(*models.Prediction)
	return prediction, args.Error(1)
}

func (m *MockPredictionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockPredictionRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockPredictionRepository) StoreResponse(ctx context.Context, id uuid.UUID, raw string) error {
	args := m.Called(ctx, id, raw)
	return args.Error(0)
}

func (m *MockPredictionRepository) StoreChart(ctx context.Context, id uuid.UUID, chart models.DropChart) error {
	args := m.Called(ctx, id, chart)
	return args.Error(0)
}

// MockPredictionService implements processing.PredictionService for testing
type MockPredictionService struct {
	mock.Mock
}

func (m *MockPredictionService) CreatePrediction(ctx context.Context, input models.BallisticInput) (*models.Prediction, error) {
	args := m.Called(ctx, input)
	prediction, _ := args.Get(0).(*models.Prediction)
	return prediction, args.Error(1)
}

func (m *MockPredictionService) ProcessPrediction(ctx context.Context, predictionID uuid.UUID) error {
	args := m.Called(ctx, predictionID)
	return args.Error(0)
}

// MockFineTuneService implements finetune.Service for testing
type MockFineTuneService struct {
	mock.Mock
}

func (m *MockFineTuneService) Submit(ctx context.Context, name string, r io.Reader) (*models.FineTuneJob, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, name, string(data))
	job, _ := args.Get(0).(*models.FineTuneJob)
	return job, args.Error(1)
}

func (m *MockFineTuneService) SubmitStored(ctx context.Context, name, key string) (*models.FineTuneJob, error) {
	args := m.Called(ctx, name, key)
	job, _ := args.Get(0).(*models.FineTuneJob)
	return job, args.Error(1)
}

func (m *MockFineTuneService) Status(ctx context.Context, jobID string) (*models.FineTuneJob, error) {
	args := m.Called(ctx, jobID)
	job, _ := args.Get(0).(*models.FineTuneJob)
	return job, args.Error(1)
}

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockS3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

package postgres

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/RMahshie/balcal/internal/repository"
	"github.com/RMahshie/balcal/pkg/models"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupDatabase starts a PostgreSQL container and applies the migrations
func setupDatabase(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("balcal_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, runMigrations(ctx, db))
	return db
}

// runMigrations applies every up migration in lexical order
func runMigrations(ctx context.Context, db *sql.DB) error {
	files, err := filepath.Glob("../../../migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		stmt, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return err
		}
	}
	return nil
}

func TestPredictionRepository_Lifecycle_Integration(t *testing.T) {
	db := setupDatabase(t)
	repo := NewPostgresPredictionRepository(db)
	ctx := context.Background()

	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Create(ctx, &models.Prediction{
		ID:        id.String(),
		Status:    models.StatusPending,
		Model:     "ft:gpt-3.5-turbo-0125:test::abc",
		Schema:    "full",
		Prompt:    "caliber: 0.223",
		CreatedAt: now,
		UpdatedAt: now,
	}))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Nil(t, got.RawResponse)
	assert.Nil(t, got.Chart)

	raw := "100 yards: 0.0 inches, 200 yards: -3.1 inches"
	chart := models.DropChart{{RangeYd: 100, DropIn: 0}, {RangeYd: 200, DropIn: -3.1}}
	require.NoError(t, repo.UpdateStatus(ctx, id, models.StatusProcessing, 50))
	require.NoError(t, repo.StoreResponse(ctx, id, raw))
	require.NoError(t, repo.StoreChart(ctx, id, chart))
	require.NoError(t, repo.UpdateStatus(ctx, id, models.StatusCompleted, 100))

	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.RawResponse)
	assert.Equal(t, raw, *got.RawResponse)
	assert.Equal(t, chart, got.Chart)
	assert.NotNil(t, got.CompletedAt)
}

func TestPredictionRepository_UpdateError_Integration(t *testing.T) {
	db := setupDatabase(t)
	repo := NewPostgresPredictionRepository(db)
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, repo.Create(ctx, &models.Prediction{
		ID:        id.String(),
		Status:    models.StatusPending,
		Model:     "gpt-3.5-turbo",
		Schema:    "compact",
		Prompt:    "caliber: 0.223",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}))

	require.NoError(t, repo.UpdateError(ctx, id, "Failed to parse model output"))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	require.NotNil(t, got.ErrorMsg)
	assert.Equal(t, "Failed to parse model output", *got.ErrorMsg)
	assert.Nil(t, got.CompletedAt)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFineTuneJobRepository_Integration(t *testing.T) {
	db := setupDatabase(t)
	repo := NewPostgresFineTuneJobRepository(db)
	ctx := context.Background()

	_, err := repo.LatestSucceeded(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	now := time.Now().UTC()
	job := &models.FineTuneJob{
		ID:             "ftjob-1",
		TrainingFileID: "file-1",
		DatasetKey:     "datasets/abc.jsonl",
		RecordCount:    10,
		BaseModel:      "gpt-3.5-turbo",
		Status:         "running",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, repo.CreateJob(ctx, job))

	got, err := repo.GetJob(ctx, "ftjob-1")
	require.NoError(t, err)
	assert.Equal(t, "datasets/abc.jsonl", got.DatasetKey)
	assert.Nil(t, got.FineTunedModel)

	model := "ft:gpt-3.5-turbo-0125:test::abc"
	finished := now.Add(time.Hour)
	job.Status = "succeeded"
	job.FineTunedModel = &model
	job.FinishedAt = &finished
	require.NoError(t, repo.UpdateJob(ctx, job))

	latest, err := repo.LatestSucceeded(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ftjob-1", latest.ID)
	require.NotNil(t, latest.FineTunedModel)
	assert.Equal(t, model, *latest.FineTunedModel)

	err = repo.UpdateJob(ctx, &models.FineTuneJob{ID: "ftjob-missing", Status: "failed"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetJob(ctx, "ftjob-missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

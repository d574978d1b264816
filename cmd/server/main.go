package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/balcal/internal/api"
	"github.com/RMahshie/balcal/internal/ballistic"
	"github.com/RMahshie/balcal/internal/config"
	"github.com/RMahshie/balcal/internal/finetune"
	"github.com/RMahshie/balcal/internal/llm"
	"github.com/RMahshie/balcal/internal/predictor"
	"github.com/RMahshie/balcal/internal/processing"
	"github.com/RMahshie/balcal/internal/repository"
	"github.com/RMahshie/balcal/internal/repository/postgres"
	"github.com/RMahshie/balcal/internal/storage"
	"github.com/RMahshie/balcal/pkg/models"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	cancelPing()

	predictionRepo := postgres.NewPostgresPredictionRepository(db)
	jobRepo := postgres.NewPostgresFineTuneJobRepository(db)

	// Dataset storage
	s3Service, err := storage.NewS3Service(storage.S3Config{
		Bucket:    cfg.AWS.S3Bucket,
		Endpoint:  cfg.AWS.S3Endpoint,
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKeyID,
		SecretKey: cfg.AWS.SecretAccessKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 service")
	}

	// Model client and prediction pipeline
	schema, err := ballistic.SchemaByName(cfg.Prediction.Schema)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid prompt schema")
	}

	model := resolveModel(cfg, jobRepo)
	client, err := llm.NewClient(llm.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Timeout:     cfg.OpenAI.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create model client")
	}

	p := predictor.New(client, ballistic.NewEncoder(schema), ballistic.Decoder{Strict: cfg.Prediction.StrictDecode})
	processingSvc := processing.NewProcessingService(p, predictionRepo, model)
	finetuneSvc := finetune.NewService(client, s3Service, jobRepo, cfg.OpenAI.BaseModel)

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Balcal API", "1.0.0")
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = "1.0.0"
		resp.Body.Time = time.Now()
		return resp, nil
	})

	api.RegisterRoutes(humaAPI, predictionRepo, processingSvc, finetuneSvc, s3Service)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Str("model", model).Str("schema", schema.Name).Msg("Starting Balcal API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// resolveModel picks the configured fine-tuned model, then the latest
// succeeded job on record, then the base model
func resolveModel(cfg *config.Config, jobs repository.FineTuneJobRepository) string {
	if cfg.OpenAI.FineTunedModel != "" {
		return cfg.OpenAI.FineTunedModel
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job, err := jobs.LatestSucceeded(ctx)
	switch {
	case err == nil && job.FineTunedModel != nil:
		log.Info().Str("jobID", job.ID).Msg("Using latest fine-tuned model")
		return *job.FineTunedModel
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		log.Warn().Err(err).Msg("Failed to look up fine-tuned model")
	}

	log.Warn().Str("model", cfg.OpenAI.BaseModel).Msg("No fine-tuned model available, predicting with base model")
	return cfg.OpenAI.BaseModel
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", middleware.GetReqID(r.Context())).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

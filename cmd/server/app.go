package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/tenexcards/tenex-api/internal/api"
	"github.com/tenexcards/tenex-api/internal/api/shared"
	"github.com/tenexcards/tenex-api/internal/config"
	"github.com/tenexcards/tenex-api/internal/platform/openrouter"
	"github.com/tenexcards/tenex-api/internal/platform/postgres"
	"github.com/tenexcards/tenex-api/internal/service"
	"github.com/tenexcards/tenex-api/internal/service/auth"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService        auth.JWTService
	generationService service.GenerationService
	flashcardService  service.FlashcardService
}

// newApplication wires configuration into the full dependency graph:
// database, stores, remote model client, and the services the handlers
// depend on.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	temperature := cfg.LLM.Temperature
	maxTokens := cfg.LLM.MaxTokens
	client, err := openrouter.NewClient(openrouter.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		DefaultModel:   cfg.LLM.Model,
		Timeout:        time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		MaxRetries:     cfg.LLM.MaxRetries,
		RetryBaseDelay: time.Duration(cfg.LLM.RetryBaseDelaySeconds) * time.Second,
		DefaultParams: openrouter.ModelParams{
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	generationStore := postgres.NewPostgresGenerationStore(db, logger)
	errorLogStore := postgres.NewPostgresGenerationErrorLogStore(db, logger)
	flashcardStore := postgres.NewPostgresFlashcardStore(db, logger)

	generationService := service.NewGenerationService(
		client,
		generationStore,
		errorLogStore,
		cfg.LLM.Model,
		time.Duration(cfg.LLM.GenerationTimeoutSeconds)*time.Second,
		logger,
	)
	flashcardService := service.NewFlashcardService(db, flashcardStore, generationStore, logger)

	// Request models need their struct-level validations installed once.
	api.RegisterValidations(shared.Validate)

	return &application{
		config:            cfg,
		logger:            logger,
		db:                db,
		jwtService:        jwtService,
		generationService: generationService,
		flashcardService:  flashcardService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
}

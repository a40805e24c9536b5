package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/notecards-app/notecards-api/internal/config"
	enginepkg "github.com/notecards-app/notecards-api/internal/domain/practice"
	"github.com/notecards-app/notecards-api/internal/generation"
	"github.com/notecards-app/notecards-api/internal/platform/gemini"
	"github.com/notecards-app/notecards-api/internal/platform/postgres"
	"github.com/notecards-app/notecards-api/internal/service/auth"
	deckservice "github.com/notecards-app/notecards-api/internal/service/deck"
	practiceservice "github.com/notecards-app/notecards-api/internal/service/practice"
	"github.com/notecards-app/notecards-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore store.UserStore
	deckStore store.DeckStore
	cardStore store.CardStore

	// Services
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	deckService      deckservice.DeckService
	practiceService  practiceservice.PracticeService

	// generator is nil when no Gemini API key is configured; the
	// suggestion route is not registered in that case.
	generator generation.Generator
}

// newApplication creates a new application instance with all
// dependencies initialized.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher(0)
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.deckStore = postgres.NewPostgresDeckStore(db, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)

	app.deckService = deckservice.NewDeckService(db, app.deckStore, app.cardStore, logger)

	engine := enginepkg.NewService(rand.New(rand.NewSource(time.Now().UnixNano())))
	app.practiceService = practiceservice.NewPracticeService(
		db, app.deckStore, app.cardStore, engine, logger)

	if cfg.SuggestEnabled() {
		app.generator, err = gemini.NewGeminiGenerator(
			ctx,
			logger.With("component", "card_suggestions"),
			cfg.Suggest,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize card suggestion generator: %w", err)
		}
		logger.Info("card suggestion generator initialized", "model", cfg.Suggest.ModelName)
	} else {
		logger.Info("card suggestions disabled, no API key configured")
	}

	logger.Info("application initialized")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		closeDatabase(app.db, app.logger)
	}
	app.logger.Info("application shutdown completed")
}

// Package main is the entry point for the Wiki Guesser bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wikiguesser-bot/internal/bot"
	"wikiguesser-bot/internal/config"
	"wikiguesser-bot/internal/pkg/db"
	"wikiguesser-bot/internal/pkg/lock"
	"wikiguesser-bot/internal/repository"
	"wikiguesser-bot/internal/service"
	"wikiguesser-bot/internal/wiki"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories and services
	scoreRepo := repository.NewScoreRepository(dbPool.Pool)
	ledger := service.NewLedger(scoreRepo)
	leaderboard := service.NewLeaderboardService(scoreRepo)

	// Initialize the knowledge-source client
	source := wiki.NewClient(&wiki.ClientConfig{
		BaseURL:    cfg.Wiki.BaseURL,
		MetricsURL: cfg.Wiki.MetricsURL,
		UserAgent:  cfg.Wiki.UserAgent,
		Timeout:    cfg.Wiki.Timeout,
	})

	// Initialize per-chat session lock
	locks := lock.NewSessionLock()

	// Create bot dependencies
	deps := &bot.Dependencies{
		Config:      cfg,
		Source:      source,
		Ledger:      ledger,
		Leaderboard: leaderboard,
		Locks:       locks,
	}

	// Initialize bot
	telegramBot, err := bot.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in a goroutine
	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create scores table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scores (
			guild_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			username VARCHAR(255) NOT NULL DEFAULT '',
			score BIGINT NOT NULL DEFAULT 0,
			times_played INT NOT NULL DEFAULT 0,
			wins INT NOT NULL DEFAULT 0,
			losses INT NOT NULL DEFAULT 0,
			last_played TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (guild_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_scores_guild_score ON scores(guild_id, score DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: scores table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}

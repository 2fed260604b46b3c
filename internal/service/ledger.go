// Package service implements the application services between the bot
// handlers and the persistence layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"wikiguesser-bot/internal/game/guess"
	"wikiguesser-bot/internal/model"
	"wikiguesser-bot/internal/repository"
)

// ScoreStore is the persistence surface the ledger needs. Implemented by
// repository.ScoreRepository; tests substitute in-memory fakes.
type ScoreStore interface {
	Get(ctx context.Context, guildID, userID int64) (*model.ScoreRecord, error)
	Put(ctx context.Context, rec *model.ScoreRecord) error
}

// Ledger turns terminal game outcomes into score-record mutations. Every
// outcome is applied to both the real guild scope and the global scope, so
// per-guild and cross-guild aggregates stay in step.
//
// Apply is idempotent-unsafe by design: applying the same outcome twice
// double-counts. The game session guarantees exactly one call per terminal
// transition.
type Ledger struct {
	store ScoreStore
	now   func() time.Time
}

// NewLedger creates a ledger over the given store.
func NewLedger(store ScoreStore) *Ledger {
	return &Ledger{
		store: store,
		now:   time.Now,
	}
}

// Apply records one terminal outcome across both guild scopes.
func (l *Ledger) Apply(ctx context.Context, outcome guess.Outcome) error {
	scopes := []int64{outcome.GuildID}
	if outcome.GuildID != model.GlobalGuildID {
		scopes = append(scopes, model.GlobalGuildID)
	}

	for _, scope := range scopes {
		if err := l.applyScope(ctx, scope, outcome); err != nil {
			return fmt.Errorf("apply outcome to guild %d: %w", scope, err)
		}
	}

	log.Info().
		Int64("guild_id", outcome.GuildID).
		Int64("user_id", outcome.UserID).
		Str("outcome", outcome.Kind.String()).
		Int64("score", outcome.Score).
		Msg("Outcome recorded")

	return nil
}

// applyScope does the read-modify-write for one guild scope, synthesizing a
// fresh record for first-time players.
func (l *Ledger) applyScope(ctx context.Context, guildID int64, outcome guess.Outcome) error {
	rec, err := l.store.Get(ctx, guildID, outcome.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNullUser) {
			return err
		}
		rec = model.NewScoreRecord(guildID, outcome.UserID, outcome.Username)
	}

	if outcome.Username != "" {
		rec.Username = outcome.Username
	}
	rec.TimesPlayed++
	rec.LastPlayed = l.now().UTC()

	switch outcome.Kind {
	case guess.OutcomeWon:
		rec.Wins++
		rec.Score += outcome.Score
	case guess.OutcomeLost, guess.OutcomeGaveUp:
		rec.Losses++
	default:
		return fmt.Errorf("unknown outcome kind %d", outcome.Kind)
	}

	return l.store.Put(ctx, rec)
}

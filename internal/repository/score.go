// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wikiguesser-bot/internal/model"
)

// ErrNullUser is returned when no score record exists for a (guild, user)
// pair. Callers synthesize a fresh record instead of propagating it.
var ErrNullUser = errors.New("user has no score record")

// scoreFields whitelists the columns UpdateField may touch.
var scoreFields = map[string]struct{}{
	"username":     {},
	"score":        {},
	"times_played": {},
	"wins":         {},
	"losses":       {},
	"last_played":  {},
}

// ScoreRepository persists per-guild score records. Guild 0 is the synthetic
// global scope.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository instance.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// Get retrieves the score record for a user in a guild scope.
// Returns ErrNullUser if no record exists.
func (r *ScoreRepository) Get(ctx context.Context, guildID, userID int64) (*model.ScoreRecord, error) {
	const query = `
		SELECT guild_id, user_id, username, score, times_played, wins, losses, last_played
		FROM scores
		WHERE guild_id = $1 AND user_id = $2
	`

	var rec model.ScoreRecord
	err := r.pool.QueryRow(ctx, query, guildID, userID).Scan(
		&rec.GuildID,
		&rec.UserID,
		&rec.Username,
		&rec.Score,
		&rec.TimesPlayed,
		&rec.Wins,
		&rec.Losses,
		&rec.LastPlayed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNullUser
		}
		return nil, fmt.Errorf("failed to get score record: %w", err)
	}

	return &rec, nil
}

// Put writes a full score record, inserting or replacing the row.
func (r *ScoreRepository) Put(ctx context.Context, rec *model.ScoreRecord) error {
	const query = `
		INSERT INTO scores (guild_id, user_id, username, score, times_played, wins, losses, last_played)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET
			username = EXCLUDED.username,
			score = EXCLUDED.score,
			times_played = EXCLUDED.times_played,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			last_played = EXCLUDED.last_played
	`

	_, err := r.pool.Exec(ctx, query,
		rec.GuildID,
		rec.UserID,
		rec.Username,
		rec.Score,
		rec.TimesPlayed,
		rec.Wins,
		rec.Losses,
		rec.LastPlayed,
	)
	if err != nil {
		return fmt.Errorf("failed to put score record: %w", err)
	}
	return nil
}

// UpdateField sets a single whitelisted column for an existing record.
// Returns ErrNullUser if the record does not exist.
func (r *ScoreRepository) UpdateField(ctx context.Context, guildID, userID int64, field string, value any) error {
	if _, ok := scoreFields[field]; !ok {
		return fmt.Errorf("unknown score field %q", field)
	}

	query := fmt.Sprintf(`UPDATE scores SET %s = $3 WHERE guild_id = $1 AND user_id = $2`, field)

	result, err := r.pool.Exec(ctx, query, guildID, userID, value)
	if err != nil {
		return fmt.Errorf("failed to update score field %s: %w", field, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNullUser
	}
	return nil
}

// TopByScore retrieves the top N records in a guild scope ordered by score.
func (r *ScoreRepository) TopByScore(ctx context.Context, guildID int64, limit int) ([]*model.ScoreRecord, error) {
	const query = `
		SELECT guild_id, user_id, username, score, times_played, wins, losses, last_played
		FROM scores
		WHERE guild_id = $1
		ORDER BY score DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}
	defer rows.Close()

	var records []*model.ScoreRecord
	for rows.Next() {
		var rec model.ScoreRecord
		err := rows.Scan(
			&rec.GuildID,
			&rec.UserID,
			&rec.Username,
			&rec.Score,
			&rec.TimesPlayed,
			&rec.Wins,
			&rec.Losses,
			&rec.LastPlayed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score record: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score records: %w", err)
	}

	return records, nil
}

// ResetGuild deletes every record in a guild scope. Used by the admin reset
// command; the global scope is left untouched.
func (r *ScoreRepository) ResetGuild(ctx context.Context, guildID int64) (int64, error) {
	const query = `DELETE FROM scores WHERE guild_id = $1`

	result, err := r.pool.Exec(ctx, query, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to reset guild scores: %w", err)
	}
	return result.RowsAffected(), nil
}

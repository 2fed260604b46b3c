// Package model defines the data models for the wiki-guesser bot.
package model

import "time"

// GlobalGuildID is the synthetic guild scope that aggregates results across
// every guild. Ranked outcomes are written to both the real guild and this
// scope.
const GlobalGuildID int64 = 0

// ScoreRecord is the per (guild, user) score row. It is mutated only through
// the score ledger on terminal win/loss, never mid-game.
type ScoreRecord struct {
	GuildID     int64     `db:"guild_id"`
	UserID      int64     `db:"user_id"`
	Username    string    `db:"username"`
	Score       int64     `db:"score"`
	TimesPlayed int       `db:"times_played"`
	Wins        int       `db:"wins"`
	Losses      int       `db:"losses"`
	LastPlayed  time.Time `db:"last_played"`
}

// NewScoreRecord synthesizes a zeroed record for a first-time player.
func NewScoreRecord(guildID, userID int64, username string) *ScoreRecord {
	return &ScoreRecord{
		GuildID:  guildID,
		UserID:   userID,
		Username: username,
	}
}

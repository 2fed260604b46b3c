package service

import (
	"context"

	"wikiguesser-bot/internal/model"
	"wikiguesser-bot/internal/repository"
)

// LeaderboardService exposes ranking and per-user stat queries.
type LeaderboardService struct {
	scores *repository.ScoreRepository
}

// NewLeaderboardService creates a new LeaderboardService instance.
func NewLeaderboardService(scores *repository.ScoreRepository) *LeaderboardService {
	return &LeaderboardService{scores: scores}
}

// Top retrieves the top users in a guild by cumulative score.
func (s *LeaderboardService) Top(ctx context.Context, guildID int64, limit int) ([]*model.ScoreRecord, error) {
	return s.scores.TopByScore(ctx, guildID, limit)
}

// GlobalTop retrieves the cross-guild top users.
func (s *LeaderboardService) GlobalTop(ctx context.Context, limit int) ([]*model.ScoreRecord, error) {
	return s.scores.TopByScore(ctx, model.GlobalGuildID, limit)
}

// UserStats retrieves one user's record in a guild scope. Returns
// repository.ErrNullUser for players with no recorded games.
func (s *LeaderboardService) UserStats(ctx context.Context, guildID, userID int64) (*model.ScoreRecord, error) {
	return s.scores.Get(ctx, guildID, userID)
}

// Reset wipes a guild's scoreboard and returns how many records were
// deleted. The global scope is preserved.
func (s *LeaderboardService) Reset(ctx context.Context, guildID int64) (int64, error) {
	return s.scores.ResetGuild(ctx, guildID)
}

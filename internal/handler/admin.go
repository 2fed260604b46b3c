package handler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"wikiguesser-bot/internal/service"
)

// AdminHandler handles admin-only maintenance commands.
type AdminHandler struct {
	leaderboard *service.LeaderboardService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(leaderboard *service.LeaderboardService) *AdminHandler {
	return &AdminHandler{leaderboard: leaderboard}
}

// HandleResetScores handles /reset_scores, wiping this chat's scoreboard.
// The global scoreboard is left intact.
func (h *AdminHandler) HandleResetScores(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	deleted, err := h.leaderboard.Reset(context.Background(), chat.ID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chat.ID).Msg("Score reset failed")
		return c.Reply("❌ Could not reset the scoreboard.")
	}

	log.Info().Int64("chat_id", chat.ID).Int64("deleted", deleted).Msg("Scoreboard reset")
	return c.Reply(fmt.Sprintf("Scoreboard reset, %d records deleted.", deleted))
}

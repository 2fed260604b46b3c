package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"wikiguesser-bot/internal/config"
	"wikiguesser-bot/internal/repository"
	"wikiguesser-bot/internal/service"
)

// LeaderboardHandler handles ranking and stats commands.
type LeaderboardHandler struct {
	cfg         *config.Config
	leaderboard *service.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(cfg *config.Config, leaderboard *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{cfg: cfg, leaderboard: leaderboard}
}

// HandleLeaderboard handles /leaderboard. "/leaderboard global" shows the
// cross-guild board instead of the chat's own.
func (h *LeaderboardHandler) HandleLeaderboard(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	ctx := context.Background()
	limit := h.cfg.Game.LeaderboardSize

	global := strings.EqualFold(strings.TrimSpace(c.Message().Payload), "global")

	title := "🏆 Leaderboard"
	rows, err := h.leaderboard.Top(ctx, chat.ID, limit)
	if global {
		title = "🌐 Global leaderboard"
		rows, err = h.leaderboard.GlobalTop(ctx, limit)
	}
	if err != nil {
		return c.Reply("❌ Could not load the leaderboard.")
	}

	if len(rows) == 0 {
		return c.Reply("Nobody has played a ranked game yet!")
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString("━━━━━━━━━━━━━━━\n")
	for i, rec := range rows {
		medal := fmt.Sprintf("%d.", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		fmt.Fprintf(&b, "%s %s — %d (W %d / L %d)\n", medal, rec.Username, rec.Score, rec.Wins, rec.Losses)
	}

	return c.Send(b.String())
}

// HandleMyStats handles /mystats, showing the caller's record in this chat.
func (h *LeaderboardHandler) HandleMyStats(c tele.Context) error {
	chat := c.Chat()
	sender := c.Sender()
	if chat == nil || sender == nil {
		return nil
	}

	rec, err := h.leaderboard.UserStats(context.Background(), chat.ID, sender.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNullUser) {
			return c.Reply("You haven't played a ranked game here yet.")
		}
		return c.Reply("❌ Could not load your stats.")
	}

	msg := fmt.Sprintf(
		"📊 Stats for %s\nScore: %d\nGames: %d\nWins: %d\nLosses: %d\nLast played: %s",
		rec.Username,
		rec.Score,
		rec.TimesPlayed,
		rec.Wins,
		rec.Losses,
		rec.LastPlayed.Format("2006-01-02 15:04 UTC"),
	)
	return c.Reply(msg)
}

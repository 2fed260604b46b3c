package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"wikiguesser-bot/internal/config"
	"wikiguesser-bot/internal/game/guess"
	"wikiguesser-bot/internal/wiki"
)

// WikiHandler handles the plain article commands outside the game.
type WikiHandler struct {
	cfg    *config.Config
	source wiki.Source
}

// NewWikiHandler creates a new WikiHandler.
func NewWikiHandler(cfg *config.Config, source wiki.Source) *WikiHandler {
	return &WikiHandler{cfg: cfg, source: source}
}

// HandleRandom handles /wikirandom, posting a random popular article.
func (h *WikiHandler) HandleRandom(c tele.Context) error {
	ctx := context.Background()

	article, err := h.source.RandomPopular(ctx, wiki.RandHistoryDate())
	if err != nil {
		log.Error().Err(err).Msg("Random article fetch failed")
		return c.Reply("❌ Could not fetch a random article right now.")
	}

	return c.Send(guess.FormatArticleCard(article))
}

// HandleSearch handles /wikisearch <query>, posting the best match.
func (h *WikiHandler) HandleSearch(c tele.Context) error {
	query := strings.TrimSpace(c.Message().Payload)
	if query == "" {
		return c.Reply("Usage: /wikisearch <query>")
	}

	article, err := wiki.FindPage(context.Background(), h.source, query)
	if err != nil {
		switch {
		case errors.Is(err, wiki.ErrNotFound), errors.Is(err, wiki.ErrInvalidTitle):
			return c.Reply("No article matches that query.")
		case errors.Is(err, wiki.ErrAmbiguousQuery):
			return c.Reply("That query is ambiguous, try something more specific.")
		default:
			log.Error().Err(err).Str("query", query).Msg("Article search failed")
			return c.Reply("❌ Search failed, please try again.")
		}
	}

	// Search hits are shallow; resolve for the full card.
	if len(article.Sentences) == 0 {
		full, err := h.source.Resolve(context.Background(), article.Title)
		if err == nil {
			article = full
		}
	}

	return c.Send(guess.FormatArticleCard(article))
}

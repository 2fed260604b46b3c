// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"wikiguesser-bot/internal/config"
	"wikiguesser-bot/internal/handler"
	"wikiguesser-bot/internal/pkg/lock"
	"wikiguesser-bot/internal/service"
	"wikiguesser-bot/internal/wiki"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot  *tele.Bot
	cfg  *config.Config
	deps *Dependencies

	guesserHandler     *handler.GuesserHandler
	leaderboardHandler *handler.LeaderboardHandler
	wikiHandler        *handler.WikiHandler
	adminHandler       *handler.AdminHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config      *config.Config
	Source      wiki.Source
	Ledger      *service.Ledger
	Leaderboard *service.LeaderboardService
	Locks       *lock.SessionLock
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:  teleBot,
		cfg:  deps.Config,
		deps: deps,
	}

	b.guesserHandler = handler.NewGuesserHandler(deps.Config, deps.Source, deps.Ledger, deps.Locks)
	b.leaderboardHandler = handler.NewLeaderboardHandler(deps.Config, deps.Leaderboard)
	b.wikiHandler = handler.NewWikiHandler(deps.Config, deps.Source)
	b.adminHandler = handler.NewAdminHandler(deps.Leaderboard)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(WhitelistMiddleware(b.cfg))
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command and callback handlers.
func (b *Bot) registerHandlers() {
	// Game handlers
	b.bot.Handle("/wikiguesser", b.guesserHandler.HandleGuesser)
	b.bot.Handle("/wikicategory", b.guesserHandler.HandleCategoryGame)

	// Leaderboard handlers
	b.bot.Handle("/leaderboard", b.leaderboardHandler.HandleLeaderboard)
	b.bot.Handle("/mystats", b.leaderboardHandler.HandleMyStats)

	// Wiki lookup handlers
	b.bot.Handle("/wikirandom", b.wikiHandler.HandleRandom)
	b.bot.Handle("/wikisearch", b.wikiHandler.HandleSearch)

	// Admin handlers (with admin middleware)
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/reset_scores", b.adminHandler.HandleResetScores)

	// Inline keyboard buttons and guess replies
	b.bot.Handle(tele.OnCallback, b.guesserHandler.HandleCallback)
	b.bot.Handle(tele.OnText, b.guesserHandler.HandleText)
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

// GetBot returns the underlying telebot instance.
func (b *Bot) GetBot() *tele.Bot {
	return b.bot
}

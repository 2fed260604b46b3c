// Package handler provides Telegram bot command and callback handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"wikiguesser-bot/internal/config"
	"wikiguesser-bot/internal/game/guess"
	"wikiguesser-bot/internal/pkg/lock"
	"wikiguesser-bot/internal/service"
	"wikiguesser-bot/internal/wiki"
)

// pendingKey identifies a player awaiting a guess prompt reply.
type pendingKey struct {
	ChatID int64
	UserID int64
}

// gameEntry ties a running session to its chat and its rendered message.
type gameEntry struct {
	session   *guess.Session
	chatID    int64
	presenter *messagePresenter
}

// GuesserHandler handles the guessing-game commands and callbacks. It owns
// one candidate provider per chat and constraint set, so the no-repeat
// guarantee spans consecutive games in the same chat.
type GuesserHandler struct {
	cfg    *config.Config
	source wiki.Source
	ledger *service.Ledger
	locks  *lock.SessionLock

	mu        sync.Mutex
	providers map[string]*wiki.Provider
	sessions  map[string]*gameEntry
	byChat    map[int64]*gameEntry
	pending   map[pendingKey]*gameEntry
}

// NewGuesserHandler creates a new GuesserHandler.
func NewGuesserHandler(cfg *config.Config, source wiki.Source, ledger *service.Ledger, locks *lock.SessionLock) *GuesserHandler {
	return &GuesserHandler{
		cfg:       cfg,
		source:    source,
		ledger:    ledger,
		locks:     locks,
		providers: make(map[string]*wiki.Provider),
		sessions:  make(map[string]*gameEntry),
		byChat:    make(map[int64]*gameEntry),
		pending:   make(map[pendingKey]*gameEntry),
	}
}

// messagePresenter renders session views by editing the game message.
type messagePresenter struct {
	bot       *tele.Bot
	msg       *tele.Message
	sessionID string
}

// Present implements guess.Presenter.
func (p *messagePresenter) Present(view guess.View) {
	if p.msg == nil {
		return
	}
	markup := guess.BuildKeyboard(p.sessionID, view.Actions)
	if _, err := p.bot.Edit(p.msg, guess.FormatGameMessage(view), markup); err != nil {
		// "message is not modified" is routine when only the keyboard shrank.
		log.Debug().Err(err).Str("session_id", p.sessionID).Msg("Failed to edit game message")
	}
}

// HandleGuesser handles the /wikiguesser command. "/wikiguesser ranked"
// starts a single-owner persisted game; anything else is casual play.
func (h *GuesserHandler) HandleGuesser(c tele.Context) error {
	ranked := strings.EqualFold(strings.TrimSpace(c.Message().Payload), "ranked")
	return h.startGame(c, ranked, nil)
}

// HandleCategoryGame handles the /wikicategory command. The payload is a
// comma-separated category list; the game draws only articles carrying all
// of them. Category games are always casual.
func (h *GuesserHandler) HandleCategoryGame(c tele.Context) error {
	categories := parseCategories(c.Message().Payload)
	if len(categories) == 0 {
		return c.Reply("Usage: /wikicategory <category>[, <category>...]")
	}
	return h.startGame(c, false, categories)
}

// startGame starts a session in the sender's chat, drawing the article from
// the provider matching the category constraints.
func (h *GuesserHandler) startGame(c tele.Context, ranked bool, categories []string) error {
	chat := c.Chat()
	sender := c.Sender()
	if chat == nil || sender == nil {
		return nil
	}

	if existing := h.entryForChat(chat.ID); existing != nil && !existing.session.State().Terminal() {
		return c.Reply("A game is already running in this chat. Finish it or give up first.")
	}

	ctx := context.Background()

	article, err := h.fetchArticle(ctx, chat.ID, categories)
	switch {
	case errors.Is(err, wiki.ErrInvalidConstraint):
		return c.Reply("❌ No such category. Check the spelling and try again.")
	case errors.Is(err, wiki.ErrExhausted) && len(categories) > 0:
		return c.Reply("❌ No articles match those categories, try a broader set.")
	case err != nil:
		log.Error().Err(err).Int64("chat_id", chat.ID).Msg("Failed to fetch article")
		return c.Reply("❌ Could not fetch an article right now, please try again.")
	}

	owners := h.roster(c, chat, sender, ranked)

	presenter := &messagePresenter{bot: c.Bot()}
	session := guess.NewSession(article, h.source, &guess.Config{
		GuildID:   chat.ID,
		Ranked:    ranked,
		Owners:    owners,
		Presenter: presenter,
		Ledger:    h.ledger,
	})
	presenter.sessionID = session.ID()

	var intro string
	switch {
	case ranked:
		intro = "Starting a game of **Ranked** Wikiguesser for " + displayName(sender)
	case len(categories) > 0:
		intro = "Starting a game of Wikiguesser from: " + strings.Join(categories, ", ")
	default:
		intro = "Starting a game of Wikiguesser"
	}
	if err := c.Reply(intro); err != nil {
		return err
	}

	view := session.View()
	msg, err := c.Bot().Send(chat, guess.FormatGameMessage(view), guess.BuildKeyboard(session.ID(), view.Actions))
	if err != nil {
		return err
	}
	presenter.msg = msg

	entry := &gameEntry{session: session, chatID: chat.ID, presenter: presenter}
	h.mu.Lock()
	h.sessions[session.ID()] = entry
	h.byChat[chat.ID] = entry
	h.mu.Unlock()

	return nil
}

// HandleCallback routes the game's inline-button callbacks.
func (h *GuesserHandler) HandleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil || c.Sender() == nil {
		return nil
	}

	data := strings.TrimPrefix(callback.Data, "\f")
	action, sessionID := guess.DecodeCallback(data)
	if action == "" {
		return nil
	}

	entry := h.entryByID(sessionID)
	if entry == nil {
		return c.Respond(&tele.CallbackResponse{Text: "This game has already ended."})
	}

	actor := c.Sender().ID
	ctx := context.Background()

	var res guess.Result
	err := h.locks.WithLock(entry.chatID, func() error {
		switch action {
		case guess.CallbackReveal:
			res = entry.session.RevealMore(actor)
		case guess.CallbackLinks:
			res = entry.session.RequestLinks(actor)
		case guess.CallbackGiveUp:
			res = entry.session.GiveUp(ctx, actor)
		case guess.CallbackGuess:
			return h.promptGuess(c, entry, actor)
		}
		return nil
	})
	if err != nil || action == guess.CallbackGuess {
		return err
	}

	switch res.Kind {
	case guess.ResultRejected, guess.ResultRevealSpent, guess.ResultNoMoreLinks:
		return c.Respond(&tele.CallbackResponse{Text: res.Message})
	case guess.ResultRevealed:
		return c.Respond(&tele.CallbackResponse{})
	case guess.ResultLinks:
		if err := c.Respond(&tele.CallbackResponse{}); err != nil {
			return err
		}
		_, err := c.Bot().Send(c.Chat(), guess.FormatLinksMessage(res.Message, res.Links), tele.ModeMarkdown)
		return err
	case guess.ResultGaveUp:
		h.cleanup(entry)
		if err := c.Respond(&tele.CallbackResponse{}); err != nil {
			return err
		}
		_, err := c.Bot().Send(c.Chat(), guess.FormatGiveUpMessage(entry.session.Article()))
		return err
	default:
		return c.Respond(&tele.CallbackResponse{})
	}
}

// promptGuess asks the player to reply with their guess. Called with the
// session lock held.
func (h *GuesserHandler) promptGuess(c tele.Context, entry *gameEntry, actor int64) error {
	if entry.session.State().Terminal() {
		return c.Respond(&tele.CallbackResponse{Text: "This game has already ended."})
	}
	if !entry.session.IsOwner(actor) {
		return c.Respond(&tele.CallbackResponse{Text: "You may not interact with this."})
	}

	h.mu.Lock()
	h.pending[pendingKey{ChatID: entry.chatID, UserID: actor}] = entry
	h.mu.Unlock()

	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		return err
	}

	_, err := c.Bot().Send(c.Chat(),
		displayName(c.Sender())+", reply with your guess.",
		&tele.SendOptions{ReplyMarkup: &tele.ReplyMarkup{ForceReply: true, Selective: true}},
	)
	return err
}

// HandleText consumes guess replies from players who pressed the guess
// button. Unrelated messages are ignored.
func (h *GuesserHandler) HandleText(c tele.Context) error {
	chat := c.Chat()
	sender := c.Sender()
	if chat == nil || sender == nil {
		return nil
	}

	key := pendingKey{ChatID: chat.ID, UserID: sender.ID}
	h.mu.Lock()
	entry, ok := h.pending[key]
	if ok {
		delete(h.pending, key)
	}
	h.mu.Unlock()
	if !ok {
		return nil
	}

	ctx := context.Background()
	var res guess.Result
	_ = h.locks.WithLock(entry.chatID, func() error {
		res = entry.session.Guess(ctx, sender.ID, c.Text())
		return nil
	})

	switch res.Kind {
	case guess.ResultCorrect:
		h.cleanup(entry)
		return c.Send(guess.FormatWinMessage(displayName(sender), entry.session.Score(), entry.session.Article()))
	case guess.ResultIncorrect, guess.ResultGuessFailed, guess.ResultRejected:
		return c.Reply(res.Message)
	default:
		return nil
	}
}

// fetchArticle pulls the next unserved article for a chat. An exhausted
// pool is cleared once and retried, allowing repeats from then on.
func (h *GuesserHandler) fetchArticle(ctx context.Context, chatID int64, categories []string) (*wiki.Article, error) {
	provider, err := h.providerFor(ctx, chatID, categories)
	if err != nil {
		return nil, err
	}

	article, err := provider.FetchArticle(ctx)
	if errors.Is(err, wiki.ErrExhausted) {
		log.Info().Int64("chat_id", chatID).Msg("Article pool exhausted, clearing served cache")
		provider.ClearCache()
		article, err = provider.FetchArticle(ctx)
	}
	return article, err
}

// providerFor returns the provider for a chat and constraint set, creating
// it on first use.
func (h *GuesserHandler) providerFor(ctx context.Context, chatID int64, categories []string) (*wiki.Provider, error) {
	key := providerKey(chatID, categories)
	h.mu.Lock()
	provider, ok := h.providers[key]
	h.mu.Unlock()
	if ok {
		return provider, nil
	}

	provider, err := wiki.NewProvider(ctx, h.source, &wiki.ProviderConfig{
		Categories:     categories,
		RandomAttempts: h.cfg.Game.RandomAttempts,
	})
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	if existing, ok := h.providers[key]; ok {
		provider = existing
	} else {
		h.providers[key] = provider
	}
	h.mu.Unlock()
	return provider, nil
}

// providerKey folds a chat and its category constraints into one map key,
// so "Physics" and "physics" games in the same chat share a served set.
func providerKey(chatID int64, categories []string) string {
	if len(categories) == 0 {
		return fmt.Sprintf("%d", chatID)
	}
	lowered := make([]string, len(categories))
	for i, category := range categories {
		lowered[i] = strings.ToLower(category)
	}
	return fmt.Sprintf("%d|%s", chatID, strings.Join(lowered, ","))
}

// parseCategories splits a comma-separated command payload into trimmed,
// non-empty category names.
func parseCategories(payload string) []string {
	var categories []string
	for _, part := range strings.Split(payload, ",") {
		if part = strings.TrimSpace(part); part != "" {
			categories = append(categories, part)
		}
	}
	return categories
}

// roster builds the session owner list. Ranked play is restricted to the
// initiator; casual play admits the chat roster, which Telegram only
// exposes as the admin list plus the initiator.
func (h *GuesserHandler) roster(c tele.Context, chat *tele.Chat, sender *tele.User, ranked bool) []guess.Owner {
	owners := []guess.Owner{{ID: sender.ID, Name: displayName(sender)}}
	if ranked {
		return owners
	}

	admins, err := c.Bot().AdminsOf(chat)
	if err != nil {
		log.Debug().Err(err).Int64("chat_id", chat.ID).Msg("Could not list chat admins for roster")
		return owners
	}
	for _, member := range admins {
		if member.User == nil || member.User.ID == sender.ID {
			continue
		}
		owners = append(owners, guess.Owner{ID: member.User.ID, Name: displayName(member.User)})
	}
	return owners
}

func (h *GuesserHandler) entryForChat(chatID int64) *gameEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.byChat[chatID]
}

func (h *GuesserHandler) entryByID(sessionID string) *gameEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[sessionID]
}

// cleanup drops a finished session from the lookup maps.
func (h *GuesserHandler) cleanup(entry *gameEntry) {
	h.mu.Lock()
	delete(h.sessions, entry.session.ID())
	if h.byChat[entry.chatID] == entry {
		delete(h.byChat, entry.chatID)
	}
	for key, pending := range h.pending {
		if pending == entry {
			delete(h.pending, key)
		}
	}
	h.mu.Unlock()
	h.locks.Release(entry.chatID)
}

// displayName returns the best human-readable name for a user.
func displayName(u *tele.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return "player"
}

package guess

import (
	"context"
	"errors"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wikiguesser-bot/internal/wiki"
)

// State is the session lifecycle state.
type State int

const (
	StateActive State = iota
	StateWon
	StateLost
	StateGaveUp
)

// Terminal reports whether no further actions are accepted.
func (s State) Terminal() bool {
	return s != StateActive
}

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	case StateGaveUp:
		return "gave_up"
	default:
		return "unknown"
	}
}

// Action identifies a player affordance the presenter can offer.
type Action int

const (
	ActionReveal Action = iota
	ActionGuess
	ActionLinks
	ActionGiveUp
)

// View is the snapshot pushed to the presenter after every action.
type View struct {
	State   State
	Excerpt string
	Score   int64
	Actions []Action
}

// Presenter renders session state to the chat surface. The session calls it
// back after every accepted action; the presenter owns all formatting and
// disables affordances absent from View.Actions.
type Presenter interface {
	Present(view View)
}

// ResultKind classifies the immediate outcome of one action call.
type ResultKind int

const (
	// ResultRejected: non-owner actor or terminal session; nothing mutated.
	ResultRejected ResultKind = iota
	ResultRevealed
	ResultRevealSpent
	ResultCorrect
	ResultIncorrect
	ResultGuessFailed
	ResultLinks
	ResultNoMoreLinks
	ResultGaveUp
)

// Result is what an action reports back to the interaction handler.
type Result struct {
	Kind    ResultKind
	Message string
	Links   []string
}

// Owner is a participant allowed to act on the session.
type Owner struct {
	ID   int64
	Name string
}

// Config configures a new session.
type Config struct {
	GuildID int64
	// Ranked sessions have exactly one owner and persist their outcome.
	Ranked bool
	// Owners is the full roster for casual play, the single initiator when
	// ranked.
	Owners    []Owner
	Presenter Presenter
	// Ledger receives the terminal outcome of ranked sessions. Ignored for
	// casual play.
	Ledger OutcomeSink
}

// Session drives a single running game. It owns the article, the score, the
// excerpt-disclosure cursor, the link-hint pool and the access-control list.
// Actions are serialized by the platform's interaction model; the session
// itself holds no timer and no locking.
type Session struct {
	id      string
	article *wiki.Article
	source  wiki.Source

	guildID int64
	ranked  bool
	owners  map[int64]string

	score  int64
	cursor int
	links  []string
	state  State

	presenter Presenter
	ledger    OutcomeSink
}

// NewSession creates a session around a freshly fetched article.
func NewSession(article *wiki.Article, source wiki.Source, cfg *Config) *Session {
	owners := make(map[int64]string, len(cfg.Owners))
	for _, o := range cfg.Owners {
		owners[o.ID] = o.Name
	}

	s := &Session{
		id:        uuid.NewString(),
		article:   article,
		source:    source,
		guildID:   cfg.GuildID,
		ranked:    cfg.Ranked,
		owners:    owners,
		score:     InitialScore,
		cursor:    1, // first sentence is visible from the start
		links:     append([]string(nil), article.Links...),
		state:     StateActive,
		presenter: cfg.Presenter,
		ledger:    cfg.Ledger,
	}

	log.Info().
		Str("session_id", s.id).
		Str("title", article.Title).
		Bool("ranked", cfg.Ranked).
		Int("owners", len(owners)).
		Int("links", len(s.links)).
		Msg("Game session started")

	return s
}

// ID returns the session identifier used in callback data.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Score returns the current score. It may be negative.
func (s *Session) Score() int64 { return s.score }

// Ranked reports whether the session persists its outcome.
func (s *Session) Ranked() bool { return s.ranked }

// Article returns the session's article. Exposed for terminal reveals.
func (s *Session) Article() *wiki.Article { return s.article }

// RemainingLinks returns how many link hints are left.
func (s *Session) RemainingLinks() int { return len(s.links) }

// ExcerptCursor returns how many sentences are currently visible.
func (s *Session) ExcerptCursor() int { return s.cursor }

// VisibleExcerpt returns the revealed portion of the excerpt with the title
// words censored out.
func (s *Session) VisibleExcerpt() string {
	return wiki.CensorTitle(s.article.Excerpt(s.cursor), s.article.Title)
}

// IsOwner reports whether an identity may act on this session.
func (s *Session) IsOwner(actor int64) bool {
	_, ok := s.owners[actor]
	return ok
}

// RevealMore discloses the next excerpt sentence, charging half the newly
// revealed text length. A reveal past the end of the text, or past the
// render cap, is a no-op that leaves the session active.
func (s *Session) RevealMore(actor int64) Result {
	if r, ok := s.guard(actor); !ok {
		return r
	}

	if !s.canReveal() {
		return Result{Kind: ResultRevealSpent, Message: "The whole excerpt is already visible."}
	}

	// The charged length deliberately includes the ". " joining the new
	// sentence, not just the bare sentence text.
	before := len(s.article.Excerpt(s.cursor))
	s.cursor++
	after := len(s.article.Excerpt(s.cursor))
	s.score -= RevealCost(after - before)

	log.Debug().
		Str("session_id", s.id).
		Int("cursor", s.cursor).
		Int64("score", s.score).
		Msg("Excerpt revealed")

	s.present()
	return Result{Kind: ResultRevealed, Message: s.VisibleExcerpt()}
}

// Guess resolves the player's input against the knowledge source and checks
// it against the article title. Resolution failures are reported without
// touching score or state; a wrong resolvable guess costs WrongGuessPenalty;
// an exact title match wins the session.
func (s *Session) Guess(ctx context.Context, actor int64, text string) Result {
	if r, ok := s.guard(actor); !ok {
		return r
	}

	page, err := wiki.FindPage(ctx, s.source, text)
	if err != nil {
		switch {
		case errors.Is(err, wiki.ErrAmbiguousQuery):
			return Result{Kind: ResultGuessFailed, Message: "That title is ambiguous, try something more specific."}
		case errors.Is(err, wiki.ErrNotFound), errors.Is(err, wiki.ErrInvalidTitle):
			return Result{Kind: ResultGuessFailed, Message: "Sorry, no article matches that guess."}
		default:
			log.Warn().Err(err).Str("session_id", s.id).Msg("Guess resolution failed")
			return Result{Kind: ResultGuessFailed, Message: "Something went wrong looking that up, try again."}
		}
	}

	if page.Title == s.article.Title {
		s.state = StateWon
		s.apply(ctx, actor, OutcomeWon)
		log.Info().
			Str("session_id", s.id).
			Int64("score", s.score).
			Msg("Session won")
		s.present()
		return Result{Kind: ResultCorrect}
	}

	s.score -= WrongGuessPenalty
	s.present()
	return Result{Kind: ResultIncorrect, Message: "That's incorrect, please try again."}
}

// RequestLinks pops up to LinkBatchSize links at random from the remaining
// pool, charging a flat LinkHintCost. When exactly one link remains after a
// pop, it rides along in the same batch rather than being left behind. An
// empty pool responds with a notice and charges nothing.
func (s *Session) RequestLinks(actor int64) Result {
	if r, ok := s.guard(actor); !ok {
		return r
	}

	if len(s.links) == 0 {
		return Result{Kind: ResultNoMoreLinks, Message: "No more links!"}
	}

	s.score -= LinkHintCost

	batch := make([]string, 0, LinkBatchSize+1)
	for i := 0; i < LinkBatchSize && len(s.links) > 0; i++ {
		j := rand.Intn(len(s.links))
		batch = append(batch, s.links[j])
		s.links = append(s.links[:j], s.links[j+1:]...)
		if len(s.links) == 1 {
			batch = append(batch, s.links[0])
			s.links = nil
			break
		}
	}

	log.Debug().
		Str("session_id", s.id).
		Int("batch", len(batch)).
		Int("remaining", len(s.links)).
		Int64("score", s.score).
		Msg("Link hints served")

	s.present()
	return Result{Kind: ResultLinks, Message: "Links in article:", Links: batch}
}

// GiveUp terminates the session, revealing the article as consolation.
// Ranked give-ups go through the loss-accounting path.
func (s *Session) GiveUp(ctx context.Context, actor int64) Result {
	if r, ok := s.guard(actor); !ok {
		return r
	}

	s.state = StateGaveUp
	s.apply(ctx, actor, OutcomeGaveUp)

	log.Info().
		Str("session_id", s.id).
		Str("title", s.article.Title).
		Msg("Session given up")

	s.present()
	return Result{Kind: ResultGaveUp, Message: "Thank you for trying!"}
}

// guard enforces the terminal-state and ownership rules. It returns the
// rejection result and false when the action must not proceed.
func (s *Session) guard(actor int64) (Result, bool) {
	if s.state.Terminal() {
		return Result{Kind: ResultRejected, Message: "This game has already ended."}, false
	}
	if !s.IsOwner(actor) {
		return Result{Kind: ResultRejected, Message: "You may not interact with this."}, false
	}
	return Result{}, true
}

// canReveal reports whether another sentence can be disclosed.
func (s *Session) canReveal() bool {
	if s.cursor >= len(s.article.Sentences) {
		return false
	}
	return len(s.article.Excerpt(s.cursor+1)) <= MaxExcerptLen
}

// apply hands the terminal outcome to the ledger. Casual sessions are
// ephemeral and skip persistence entirely; ledger failures are logged and
// never escape the session boundary.
func (s *Session) apply(ctx context.Context, actor int64, kind OutcomeKind) {
	if !s.ranked || s.ledger == nil {
		return
	}

	outcome := Outcome{
		Kind:     kind,
		GuildID:  s.guildID,
		UserID:   actor,
		Username: s.owners[actor],
		Score:    s.score,
	}
	if err := s.ledger.Apply(ctx, outcome); err != nil {
		log.Error().
			Err(err).
			Str("session_id", s.id).
			Str("outcome", kind.String()).
			Msg("Failed to record session outcome")
	}
}

// View snapshots the session for the presenter: state, visible excerpt,
// score and the actions still worth offering.
func (s *Session) View() View {
	var actions []Action
	if s.state == StateActive {
		if s.canReveal() {
			actions = append(actions, ActionReveal)
		}
		actions = append(actions, ActionGuess)
		if len(s.links) > 0 {
			actions = append(actions, ActionLinks)
		}
		actions = append(actions, ActionGiveUp)
	}

	return View{
		State:   s.state,
		Excerpt: s.VisibleExcerpt(),
		Score:   s.score,
		Actions: actions,
	}
}

// present pushes the current snapshot to the presenter.
func (s *Session) present() {
	if s.presenter == nil {
		return
	}
	s.presenter.Present(s.View())
}

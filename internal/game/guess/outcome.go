package guess

import "context"

// OutcomeKind tags the terminal result of a session.
type OutcomeKind int

const (
	OutcomeWon OutcomeKind = iota
	OutcomeLost
	OutcomeGaveUp
)

// String returns the outcome name for logging.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	case OutcomeGaveUp:
		return "gave_up"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a ranked session, handed to the score
// ledger exactly once. Score is only meaningful for OutcomeWon.
type Outcome struct {
	Kind     OutcomeKind
	GuildID  int64
	UserID   int64
	Username string
	Score    int64
}

// OutcomeSink records terminal outcomes. The session guarantees Apply is
// invoked at most once per session, on the terminal transition; double
// application double-counts by design.
type OutcomeSink interface {
	Apply(ctx context.Context, outcome Outcome) error
}

// Package guess implements the wiki-guesser game session: a state machine
// that walks one game from launch through excerpt disclosure, hint
// consumption and guess validation to a terminal win, loss or give-up.
package guess

// Scoring rules. Score starts at InitialScore and only ever decays; it is
// deliberately not clamped at zero.
const (
	// InitialScore is the score a fresh session starts with.
	InitialScore int64 = 1000

	// WrongGuessPenalty is charged for an incorrect but resolvable guess.
	WrongGuessPenalty int64 = 5

	// LinkHintCost is the flat charge per link batch, regardless of how many
	// links the batch actually contained.
	LinkHintCost int64 = 10

	// LinkBatchSize is how many links a single hint request reveals.
	LinkBatchSize = 10

	// MaxExcerptLen caps the rendered excerpt; reveals that would push the
	// visible text past it are disabled.
	MaxExcerptLen = 1990
)

// RevealCost prices one excerpt reveal: half the newly revealed text length,
// rounded up.
func RevealCost(revealedLen int) int64 {
	if revealedLen <= 0 {
		return 0
	}
	return int64((revealedLen + 1) / 2)
}

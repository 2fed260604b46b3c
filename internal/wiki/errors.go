package wiki

import "errors"

// Errors returned by the knowledge source and the candidate provider.
var (
	// ErrNotFound indicates that no article exists for the requested title.
	ErrNotFound = errors.New("article not found")

	// ErrInvalidTitle indicates a title the knowledge source refuses to resolve.
	ErrInvalidTitle = errors.New("invalid article title")

	// ErrAmbiguousQuery indicates a search that matched several articles with
	// no clear best result.
	ErrAmbiguousQuery = errors.New("ambiguous query")

	// ErrInvalidConstraint indicates a provider constraint naming a category or
	// title that does not exist in the knowledge source.
	ErrInvalidConstraint = errors.New("invalid provider constraint")

	// ErrExhausted indicates that no candidate article satisfies the active
	// constraints and the served-set state. Callers must ClearCache or relax
	// the constraints before retrying.
	ErrExhausted = errors.New("candidate pool exhausted")
)

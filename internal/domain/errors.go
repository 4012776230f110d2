package domain

import "errors"

var (
	// ErrNoCategories means the source contained no recognizable category
	// block at all. It points at a changed or malformed page, not at a
	// ceremony that has not finished yet.
	ErrNoCategories = errors.New("no categories found in source")

	// ErrSourceUnavailable covers fetch failures and unreadable datasets.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrResultsPending means categories were recognized but no winner could
	// be bound to the dataset yet.
	ErrResultsPending = errors.New("results not available yet")

	ErrStaleResult     = errors.New("a newer result is already stored")
	ErrVotingClosed    = errors.New("voting is closed")
	ErrInvalidUsername = errors.New("invalid username")
	ErrNoPicks         = errors.New("at least one pick is required")
)

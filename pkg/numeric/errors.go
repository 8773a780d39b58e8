package numeric

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when no value was entered.
	ErrEmpty = errors.New("empty value")

	// ErrForbiddenSeparator is returned when the input contains a comma.
	// Use a dot for decimals and a suffix (k, m, b, t) for large values.
	ErrForbiddenSeparator = errors.New("use a dot, not a comma")

	// ErrBadFormat is returned when the input is not a number with an optional k/m/b/t suffix.
	ErrBadFormat = errors.New("invalid format")

	// ErrTooLarge is returned when a magnitude exceeds the 10T ceiling.
	ErrTooLarge = errors.New("exceeds the 10T limit")

	// ErrInvalidExtra is returned when the extra items are outside [0, 63].
	ErrInvalidExtra = errors.New("extra items must be between 0 and 63")

	// ErrTooManyStacks is returned when the stack count exceeds 150 billion.
	ErrTooManyStacks = errors.New("too many stacks")

	// ErrTooManyItems is returned when the total item count exceeds the 10T ceiling.
	ErrTooManyItems = errors.New("too many items")

	// ErrTooManyKills is returned when a kill count exceeds 10,000.
	ErrTooManyKills = errors.New("too many kills")

	// ErrTextTooLong is returned when an info text exceeds 10,000 characters.
	ErrTextTooLong = errors.New("text too long")
)

// ParseError carries the rejected input together with the reason.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseError(input string, err error) error {
	return &ParseError{Input: input, Err: err}
}

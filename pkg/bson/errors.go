package bson

import (
	"errors"
	"fmt"
)

// Sentinel error classes.
//
// Callers should classify errors with errors.Is/errors.As rather than
// string-matching.
var (
	// ErrBadInput indicates malformed byte framing, an unrecognized BSON
	// type tag, invalid UTF-8, or any sub-structure that failed to open.
	// It is never swallowed; it propagates unchanged up the call stack and
	// aborts whatever container was being built.
	ErrBadInput = errors.New("bson: bad input")

	// ErrKey is the sentinel [*KeyError] values report through Is, so
	// callers can write errors.Is(err, bson.ErrKey) without a type switch.
	ErrKey = errors.New("bson: key not found")
)

// KeyError reports a key missing on lookup or deletion.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("bson: key not found: %q", e.Key)
}

// Is reports whether target is [ErrKey], so errors.Is(err, ErrKey) matches
// any *KeyError regardless of which key it carries.
func (e *KeyError) Is(target error) bool {
	return target == ErrKey
}

func badInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadInput, fmt.Sprintf(format, args...))
}

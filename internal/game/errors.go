package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error categories. Every error returned by this package wraps exactly one
// of them, so adapters can map with errors.Is.
var (
	// ErrConfig covers bad or missing modes and malformed registries.
	ErrConfig = errors.New("configuration error")
	// ErrValidation covers bad client input: digits, counts, shapes.
	ErrValidation = errors.New("validation error")
	// ErrState covers unknown, expired or corrupt sessions.
	ErrState = errors.New("state error")
	// ErrDependency covers storage and other collaborators being unavailable.
	ErrDependency = errors.New("dependency unavailable")
)

var (
	ErrModeNotFound     = fmt.Errorf("%w: mode not found", ErrConfig)
	ErrDuplicateMode    = fmt.Errorf("%w: duplicate mode", ErrConfig)
	ErrInvalidMode      = fmt.Errorf("%w: invalid mode", ErrConfig)
	ErrSessionNotFound  = fmt.Errorf("%w: session not found", ErrState)
	ErrMalformedSession = fmt.Errorf("%w: malformed session data", ErrState)
	ErrBadFormat        = fmt.Errorf("%w: session data is not a JSON object", ErrMalformedSession)
)

// MissingKeysError reports required session keys absent from a blob.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("%s: missing keys: %s", ErrMalformedSession, strings.Join(e.Keys, ", "))
}

func (e *MissingKeysError) Unwrap() error { return ErrMalformedSession }

func missingKeys(keys []string) error {
	sort.Strings(keys)
	return &MissingKeysError{Keys: keys}
}

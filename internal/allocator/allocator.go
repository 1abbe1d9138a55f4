// Package allocator produces short codes that are free at the moment of
// check. Generation retries until the injected exists predicate reports a
// candidate as unused, with a hard ceiling so a pathologically full code
// space fails instead of spinning.
package allocator

import (
	"errors"

	"github.com/zippy-link/zippy/internal/generator"
)

// CodeLength is the length of generated short codes.
const CodeLength = 6

// DefaultMaxAttempts bounds the retry loop. With a 6-character code drawn
// from a 64-symbol alphabet the space holds ~6.8e10 codes, so hitting the
// ceiling means the store is broken, not full.
const DefaultMaxAttempts = 100

// ErrExhausted is returned when no free code was found within the attempt
// ceiling.
var ErrExhausted = errors.New("short code allocation exhausted")

// Source produces candidate codes. The default draws from crypto/rand.
type Source func() (string, error)

// Allocator generates collision-free short codes.
type Allocator struct {
	source      Source
	maxAttempts int
}

// New returns an Allocator backed by the random generator.
func New() *Allocator {
	return &Allocator{
		source:      func() (string, error) { return generator.GenerateID(CodeLength) },
		maxAttempts: DefaultMaxAttempts,
	}
}

// NewWithSource returns an Allocator with a custom candidate source and
// attempt ceiling, used by tests to script the generated sequence.
func NewWithSource(source Source, maxAttempts int) *Allocator {
	return &Allocator{
		source:      source,
		maxAttempts: maxAttempts,
	}
}

// Allocate returns a candidate code for which exists reported false.
// The check here is advisory: the store re-checks uniqueness inside its
// own critical section at insert time, and callers retry allocation if
// that authoritative check fails.
func (a *Allocator) Allocate(exists func(code string) bool) (string, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		code, err := a.source()
		if err != nil {
			return "", err
		}

		if !exists(code) {
			return code, nil
		}
	}

	return "", ErrExhausted
}

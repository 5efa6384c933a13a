package core

import (
	"errors"
	"fmt"
)

// ErrNoResolver is returned when neither a container nor any of its parents
// has a resolver for the requested key.
var ErrNoResolver = errors.New("no resolver")

// ResolveError wraps ErrNoResolver with the key and the container the
// lookup started from.
type ResolveError struct {
	Key           TypeKey
	Container     string
	Parameterized bool
}

func (e *ResolveError) Error() string {
	kind := "resolver"
	if e.Parameterized {
		kind = "parameterized resolver"
	}
	return fmt.Sprintf("container %q: no %s for %s", e.Container, kind, e.Key)
}

func (e *ResolveError) Unwrap() error {
	return ErrNoResolver
}

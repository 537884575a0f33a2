package fix

import (
	"errors"
	"fmt"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ErrNoProvider is returned when nothing can fix a diagnostic.
var ErrNoProvider = errors.New("no fix provider")

// PopulateError reports a provider that failed while registering edits.
// The whole batch is dropped.
type PopulateError struct {
	Provider string
	Count    int // diagnostics in the batch
	Err      error
}

func (e *PopulateError) Error() string {
	return fmt.Sprintf("fix: %s: populate %d diagnostic(s): %v", e.Provider, e.Count, e.Err)
}

func (e *PopulateError) Unwrap() error { return e.Err }

// MaterializeError reports an edit session that could not produce a root.
type MaterializeError struct {
	Provider string
	Err      error
}

func (e *MaterializeError) Error() string {
	return fmt.Sprintf("fix: %s: materialise: %v", e.Provider, e.Err)
}

func (e *MaterializeError) Unwrap() error { return e.Err }

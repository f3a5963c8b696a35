package diary

import "errors"

var (
	// ErrNoEntries is returned when a diary holds no entry with content.
	ErrNoEntries = errors.New("no diary entries found")

	// ErrInvalidDocument is returned when diary_entries.json is neither an
	// object with an "entries" array nor a bare array.
	ErrInvalidDocument = errors.New("invalid diary entries document")
)

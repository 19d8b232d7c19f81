// Package repository persists board state in a key-value store.
//
// Each top-level entity collection (projects, profile, courses, filters)
// lives under its own key as a JSON document. Writes to different keys are
// independent; nothing spans keys transactionally.
package repository

import "context"

// Key names one independently written document.
type Key string

// Keys used by the board.
const (
	KeyProjects Key = "projects"
	KeyProfile  Key = "profile"
	KeyCourses  Key = "courses"
	KeyFilters  Key = "filters"
)

// Drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Store provides JSON document access by key.
type Store interface {
	// Read decodes the document at key into dst. found is false when the key
	// has never been written or was removed. A document that cannot be
	// decoded yields ErrCorrupt.
	Read(ctx context.Context, key Key, dst any) (found bool, err error)

	// Write encodes v and replaces the document at key.
	Write(ctx context.Context, key Key, v any) error

	// Remove deletes the document at key. Removing a missing key is not an error.
	Remove(ctx context.Context, key Key) error

	// Driver names the backing implementation.
	Driver() string

	// Close releases resources. Further calls fail with ErrClosed.
	Close() error
}

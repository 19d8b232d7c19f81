package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrCorrupt       = errors.New("stored document is corrupt")
	ErrClosed        = errors.New("store is closed")
	ErrUnknownDriver = errors.New("unknown store driver")
)

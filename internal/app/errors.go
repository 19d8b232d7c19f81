package service

import "errors"

// Sentinel kinds for board operations.
var (
	ErrNotFound     = errors.New("not found")
	ErrNoProfile    = errors.New("no saved profile")
	ErrDataExists   = errors.New("board already has data")
	ErrEmptyBundle  = errors.New("bundle must contain at least one of projects, profile, courses")
	ErrInvalidMode  = errors.New("invalid import mode")
	ErrInvalidInput = errors.New("invalid input")
)

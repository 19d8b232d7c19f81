package traits

import "errors"

// Sentinel kinds for trait validation errors.
var (
	ErrUnknownTrait    = errors.New("unknown trait")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrInvalidAnswer   = errors.New("answer must be between 1 and 5")
	ErrNoAnswers       = errors.New("no questions answered")
)

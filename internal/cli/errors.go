package cli

import "errors"

// Error variables for CLI argument handling and command outcomes.
var (
	ErrArgRequired        = errors.New("missing argument")
	ErrTooManyArgs        = errors.New("unexpected argument")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrAlreadyInitialized = errors.New("backing file already exists")
	ErrEmptyInput         = errors.New("no input")
)

package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoChoice is returned when a select or radio field has no options.
	ErrNoChoice = errors.New("tui: field has no options")
)

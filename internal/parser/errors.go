package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionRead is matched by SessionReadError.
	ErrSessionRead = errors.New("failed to read session file")
	// ErrNoMessage is matched by NoMessageError.
	ErrNoMessage = errors.New("no message in session file")
)

// SessionReadError reports a session file that could not be read or holds
// a line that is not JSON.
type SessionReadError struct {
	FilePath string
	Err      error
}

func (e *SessionReadError) Error() string {
	return fmt.Sprintf("failed to read session file %s: %v", e.FilePath, e.Err)
}

func (e *SessionReadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSessionRead.
func (e *SessionReadError) Is(target error) bool { return target == ErrSessionRead }

// NoMessageError reports a readable session file without a single valid
// message.
type NoMessageError struct {
	FilePath string
}

func (e *NoMessageError) Error() string {
	return "no message in session file " + e.FilePath
}

// Is reports whether target is ErrNoMessage.
func (e *NoMessageError) Is(target error) bool { return target == ErrNoMessage }

// LineError locates a JSON syntax error inside a session file.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

package persistence

import "fmt"

// WriteError is returned when writing fails.
type WriteError struct {
	Path    string
	Message string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write to %s: %s", e.Path, e.Message)
}

// ReadError is returned when reading fails.
type ReadError struct {
	Path    string
	Message string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read from %s: %s", e.Path, e.Message)
}

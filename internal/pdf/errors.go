package pdf

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrInvalidPath is returned before any parsing when the path is empty,
	// missing, not a regular file, not named *.pdf, or too large.
	ErrInvalidPath = errors.New("invalid file path")

	// ErrInvalidDocument is returned when the file content is not a PDF or
	// its container cannot be parsed.
	ErrInvalidDocument = errors.New("invalid PDF document")
)

// Error describes a failed read of one file.
type Error struct {
	Kind error  `json:"-"`
	Path string `json:"path"`
	Op   string `json:"operation"`
	Err  error  `json:"error,omitempty"`
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s '%s'", e.Op, e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s '%s': %v", e.Op, e.Kind, e.Path, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidPath(path, op string, err error) *Error {
	return &Error{Kind: ErrInvalidPath, Path: path, Op: op, Err: err}
}

func invalidDocument(path, op string, err error) *Error {
	return &Error{Kind: ErrInvalidDocument, Path: path, Op: op, Err: err}
}

package specgen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the four failure classes of a generation run.
var (
	// ErrInput is returned when the source document is missing or unreadable.
	ErrInput = errors.New("specgen: input error")

	// ErrFormat is returned when the source document is not parseable as
	// structured data.
	ErrFormat = errors.New("specgen: format error")

	// ErrSchema is returned when the parsed document is not a usable object,
	// or a referenced construct cannot be resolved.
	ErrSchema = errors.New("specgen: schema error")

	// ErrWrite is returned when an artifact cannot be written.
	ErrWrite = errors.New("specgen: write error")
)

// InputError represents a missing or unreadable source document.
type InputError struct {
	Path  string
	Cause error
}

// Error returns the error string.
func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("specgen: input %q: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("specgen: input %q not found", e.Path)
}

// Unwrap returns the underlying error.
func (e *InputError) Unwrap() error { return e.Cause }

// Is reports whether the target error matches ErrInput.
func (e *InputError) Is(target error) bool { return target == ErrInput }

// NewInputError returns a new InputError for the given path.
func NewInputError(path string, cause error) *InputError {
	return &InputError{Path: path, Cause: cause}
}

// FormatError represents a document that cannot be parsed as YAML or JSON.
type FormatError struct {
	Path    string
	Line    int // 1-based, zero when unknown
	Message string
	Cause   error
}

// Error returns the error string.
func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("specgen: failed to parse")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error { return e.Cause }

// Is reports whether the target error matches ErrFormat.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// NewFormatError returns a new FormatError.
func NewFormatError(path, message string, cause error) *FormatError {
	return &FormatError{Path: path, Message: message, Cause: cause}
}

// SchemaError represents a structurally unusable document. Pointer locates
// the offending construct, e.g. "#/components/parameters/Limit".
type SchemaError struct {
	Pointer string
	Message string
	Cause   error
}

// Error returns the error string.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("specgen: schema error")
	if e.Pointer != "" {
		b.WriteString(" at ")
		b.WriteString(e.Pointer)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error { return e.Cause }

// Is reports whether the target error matches ErrSchema.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// NewSchemaError returns a new SchemaError.
func NewSchemaError(pointer, message string, cause error) *SchemaError {
	return &SchemaError{Pointer: pointer, Message: message, Cause: cause}
}

// WriteError represents a failure to write a single artifact.
type WriteError struct {
	Path  string
	Cause error
}

// Error returns the error string.
func (e *WriteError) Error() string {
	return fmt.Sprintf("specgen: write %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error { return e.Cause }

// Is reports whether the target error matches ErrWrite.
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// NewWriteError returns a new WriteError for the given artifact path.
func NewWriteError(path string, cause error) *WriteError {
	return &WriteError{Path: path, Cause: cause}
}

// IsInputError returns true if the error is an InputError.
func IsInputError(err error) bool {
	if err == nil {
		return false
	}
	var e *InputError
	return errors.As(err, &e)
}

// IsFormatError returns true if the error is a FormatError.
func IsFormatError(err error) bool {
	if err == nil {
		return false
	}
	var e *FormatError
	return errors.As(err, &e)
}

// IsSchemaError returns true if the error is a SchemaError.
func IsSchemaError(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaError
	return errors.As(err, &e)
}

// IsWriteError returns true if the error is a WriteError.
func IsWriteError(err error) bool {
	if err == nil {
		return false
	}
	var e *WriteError
	return errors.As(err, &e)
}

// WritePaths returns the artifact paths of every WriteError found in err,
// including those joined with errors.Join.
func WritePaths(err error) []string {
	var paths []string
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
		case *WriteError:
			paths = append(paths, e.Path)
		case interface{ Unwrap() []error }:
			for _, err := range e.Unwrap() {
				walk(err)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)
	return paths
}

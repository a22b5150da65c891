package errors

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies a failure so callers can decide how to report it
type Kind int

const (
	// KindUnknown is any error not created by this package
	KindUnknown Kind = iota
	// KindValidation is a user input problem. Never retried.
	KindValidation
	// KindStorage is a fault reading or writing a store file
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a failure with a Kind. Storage errors carry the offending file path.
type Error struct {
	Kind Kind
	Path string
	err  error
}

// Validation returns a validation error with a human readable message
func Validation(format string, formatArgs ...interface{}) error {
	return &Error{
		Kind: KindValidation,
		err:  errors.Errorf(format, formatArgs...),
	}
}

// Storage wraps err as a storage fault for the file at path. Returns nil if err is nil.
func Storage(path string, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok && e.Kind == KindStorage {
		return e
	}
	return &Error{
		Kind: KindStorage,
		Path: path,
		err:  err,
	}
}

// Corrupt returns a storage fault for a file whose contents could not be parsed
func Corrupt(path string, err error) error {
	return &Error{
		Kind: KindStorage,
		Path: path,
		err:  errors.Wrapf(err, "Corrupt file %q", path),
	}
}

func (e *Error) Error() string {
	if e.Kind == KindStorage && e.Path != "" && !strings.Contains(e.err.Error(), e.Path) {
		return errors.Wrapf(e.err, "File %q", e.Path).Error()
	}
	return e.err.Error()
}

// Cause implements the pkg/errors causer interface
func (e *Error) Cause() error {
	return e.err
}

// KindOf returns the Kind of err, or KindUnknown if err was not created by this package
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		causer, ok := err.(interface{ Cause() error })
		if !ok {
			return KindUnknown
		}
		err = causer.Cause()
	}
	return KindUnknown
}

// IsValidation returns true if err is a validation error
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsStorage returns true if err is a storage fault
func IsStorage(err error) bool {
	return KindOf(err) == KindStorage
}

// Errors makes it easy to combine multiple errors into a single string
type Errors []error

// ErrIf appends an error with failureMessage if the condition is true
// Returns the condition to allow for further conditional checks
func (e *Errors) ErrIf(condition bool, failureMessage string, formatArgs ...interface{}) bool {
	if condition {
		*e = append(*e, errors.Errorf(failureMessage, formatArgs...))
	}
	return condition
}

// ErrOrNil returns e if an error is present, otherwise returns nil
func (e Errors) ErrOrNil() error {
	if len(e) == 1 {
		// simplify result if there's only one error
		return e[0]
	}
	if len(e) > 0 {
		return e
	}
	return nil
}

func (e Errors) Error() string {
	var buf strings.Builder
	for i, err := range e {
		if i != 0 {
			buf.WriteRune('\n')
		}
		buf.WriteString(err.Error())
	}
	return buf.String()
}

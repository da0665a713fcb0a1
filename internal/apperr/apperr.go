package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch without matching messages.
type Kind string

const (
	InvalidArgument   Kind = "invalid_argument"
	MissingParameter  Kind = "missing_parameter"
	EmptyContent      Kind = "empty_content"
	InvalidURL        Kind = "invalid_url"
	UnsupportedType   Kind = "unsupported_type"
	FileReadError     Kind = "file_read_error"
	InvalidCredential Kind = "invalid_credential"
	QuotaExceeded     Kind = "quota_exceeded"
	Transport         Kind = "transport"
	CompletionFailed  Kind = "completion_failed"
	ProcessingFailed  Kind = "processing_failed"
	PersistenceError  Kind = "persistence_error"
	NotFound          Kind = "not_found"
)

// Error carries a Kind, the operation that failed and the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind with a plain message.
func New(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Err: errors.New(msg)}
}

// Wrap attaches a kind to err. A nil err stays nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the outermost kind in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether any error in err's chain has the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

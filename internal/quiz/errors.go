package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("quiz not found")
	ErrSourceTooShort = errors.New("source text too short")

	errMissingQuizID    = errors.New("quiz id is required")
	errNoQuestionStored = errors.New("no question could be stored")
)

// Kind classifies failures by how callers should surface them.
type Kind int

const (
	KindUnknown    Kind = iota
	KindInput           // bad request or short source; reported as is
	KindUpstream        // generation or extraction failed; user may retry
	KindValidation      // model output rejected; raw text is logged, never shown
	KindStorage         // persistence failed
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindUpstream:
		return "upstream"
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func inputErr(op string, err error) error      { return &Error{Kind: KindInput, Op: op, Err: err} }
func upstreamErr(op string, err error) error   { return &Error{Kind: KindUpstream, Op: op, Err: err} }
func validationErr(op string, err error) error { return &Error{Kind: KindValidation, Op: op, Err: err} }
func storageErr(op string, err error) error    { return &Error{Kind: KindStorage, Op: op, Err: err} }

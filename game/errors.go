package game

import "fmt"

// Kind classifies round failures.
type Kind string

const (
	KindConnection       Kind = "connection"
	KindConfiguration    Kind = "configuration"
	KindObjectExtraction Kind = "object_extraction"
	KindTransaction      Kind = "transaction"
	KindAborted          Kind = "aborted"
)

// Error is a round failure with the step it happened in.
type Error struct {
	Kind  Kind
	Step  string
	Cause error
}

// Sentinels for errors.Is; they match any Error of the same kind.
var (
	ErrConnection       = &Error{Kind: KindConnection}
	ErrConfiguration    = &Error{Kind: KindConfiguration}
	ErrObjectExtraction = &Error{Kind: KindObjectExtraction}
	ErrTransaction      = &Error{Kind: KindTransaction}
	ErrAborted          = &Error{Kind: KindAborted}
)

func newError(kind Kind, step string, cause error) *Error {
	return &Error{Kind: kind, Step: step, Cause: cause}
}

func (e *Error) Error() string {
	msg := string(e.Kind) + " error"
	if e.Step != "" {
		msg = fmt.Sprintf("%s in %s", msg, e.Step)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

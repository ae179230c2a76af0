package gateway

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/huy11113/cinetaste-ai/internal/httpclient"
	"github.com/huy11113/cinetaste-ai/internal/llm"
)

// Kind classifies a failed generation. Only Transient and Malformed are
// retried.
type Kind int

const (
	KindInternal Kind = iota
	KindInput
	KindSafety
	KindMalformed
	KindSchema
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input_validation"
	case KindSafety:
		return "safety_block"
	case KindMalformed:
		return "malformed_output"
	case KindSchema:
		return "schema_validation"
	case KindTransient:
		return "transient_provider"
	default:
		return "internal"
	}
}

func (k Kind) Retryable() bool {
	return k == KindTransient || k == KindMalformed
}

const snippetLimit = 200

type Error struct {
	Kind     Kind
	Op       string
	Field    string
	Snippet  string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Field != "" {
		msg += " at " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" (after %d attempts)", e.Attempts)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Retryable() bool { return e.Kind.Retryable() }

// InputError rejects a request before anything is sent to the provider.
func InputError(field string, err error) *Error {
	return &Error{Kind: KindInput, Field: field, Err: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindInternal
}

// classify maps a provider call failure onto a kind.
func classify(err error) Kind {
	var blocked *llm.BlockedError
	switch {
	case errors.As(err, &blocked):
		return KindSafety
	case errors.Is(err, context.DeadlineExceeded):
		return KindTransient
	case httpclient.IsTransient(err):
		return KindTransient
	}
	return KindInternal
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= snippetLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:snippetLimit]) + "…"
}

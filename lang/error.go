package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput          = NewError("failed to read input")
	ErrDecode             = NewError("failed to decode input")
	ErrEncode             = NewError("failed to encode output")
	ErrUnknownFormat      = NewError("unknown format")
	ErrDefinitionNotFound = NewError("definitions file not found")
	ErrInvalidDefinition  = NewError("invalid definition")
)

// Error is an error carrying attributes for structured logging.
// It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
// An err that already is an *Error is returned unchanged.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error joins the message and the wrapped error with ": ", omitting either
// if empty.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same message, so that
// errors derived from a sentinel with [Error.Wrap] or [Error.With] still
// match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	all := make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	all = append(all, e.attrs...)
	all = append(all, attrs...)

	return &Error{msg: e.msg, err: e.err, attrs: all}
}

// ParseError locates a malformed expression.
//
// Key is the dot-joined path of argument indices from the root of the
// expression to the offending node; the root itself has the empty key.
type ParseError struct {
	Key     string `json:"key"   yaml:"key"`
	Message string `json:"error" yaml:"error"`
}

func (e *ParseError) Error() string {
	if e.Key == "" {
		return e.Message
	}

	return e.Key + ": " + e.Message
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("key", e.Key),
		slog.String("error", e.Message),
	)
}

package types

import (
	"log/slog"
	"strings"
)

// ErrInvalidName is returned by [Parse] when a type name is malformed.
var ErrInvalidName = NewError("invalid type name")

// Error is an error with optional structured logging attributes.
// It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
	kind  *Error // sentinel this error derives from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error joins the message and the wrapped error with ": ".
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

// Is reports whether target is e or the sentinel e derives from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && (t == e || t == e.sentinel())
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
	return &Error{msg: e.msg, err: err, attrs: e.attrs, kind: e.sentinel()}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	all := make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	all = append(all, e.attrs...)
	all = append(all, attrs...)

	return &Error{msg: e.msg, err: e.err, attrs: all, kind: e.sentinel()}
}

// Detail returns a copy of e whose message is followed by detail.
func (e *Error) Detail(detail string) *Error {
	return &Error{
		msg:   e.msg + " " + detail,
		err:   e.err,
		attrs: e.attrs,
		kind:  e.sentinel(),
	}
}

func (e *Error) sentinel() *Error {
	if e.kind != nil {
		return e.kind
	}

	return e
}

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// ANSI escapes used by the pretty handler.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler writes colorized records for a terminal. In [FormatText]
// each record is a single line of key=value pairs; in [FormatJSON] it is an
// indented object with unquoted values.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{opts: *opts, format: format, mu: &sync.Mutex{}, w: w}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(slices.Clip(h.attrs), h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = append(fields, slog.Time(slog.TimeKey, r.Time))
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	var own []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		own = append(own, a)

		return true
	})

	fields = append(fields, h.qualify(own)...)

	buf := new(bytes.Buffer)

	if h.format == FormatJSON {
		buf.WriteString("{\n")
	}

	n := 0

	for _, a := range fields {
		a = h.replace(a)
		if a.Equal(slog.Attr{}) {
			continue
		}

		h.writeAttr(buf, a, n)
		n++
	}

	if h.format == FormatJSON {
		buf.WriteString("\n}")
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// qualify prefixes attribute keys with the open groups.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}

	prefix := strings.Join(h.groups, ".") + "."
	out := make([]slog.Attr, len(attrs))

	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	switch a.Key {
	case slog.TimeKey, slog.LevelKey:
		return h.opts.ReplaceAttr(nil, a)
	}

	return a
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, a slog.Attr, n int) {
	switch h.format {
	case FormatJSON:
		if n > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(colorGray + a.Key + colorReset)
		buf.WriteString(": ")

	default:
		if n > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray + a.Key + colorReset)
		buf.WriteByte('=')
	}

	if a.Key == slog.LevelKey {
		writeLevel(buf, a.Value)

		return
	}

	writeValue(buf, a.Value.Resolve())
}

func writeLevel(buf *bytes.Buffer, v slog.Value) {
	level := ParseLevel(v.String())
	if l, ok := v.Any().(slog.Level); ok {
		level = Level(l)
	}

	switch {
	case level >= LevelError:
		buf.WriteString(colorRed)
	case level >= LevelWarn:
		buf.WriteString(colorYellow)
	case level >= LevelInfo:
		buf.WriteString(colorGreen)
	default:
		buf.WriteString(colorBlue)
	}

	buf.WriteString(strings.ToUpper(level.String()))
	buf.WriteString(colorReset)
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, ""

	switch v.Kind() {
	case slog.KindString:
		text = v.String()
	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		color, text = colorRed, "false"
		if v.Bool() {
			color, text = colorGreen, "true"
		}
	case slog.KindDuration:
		color, text = colorMagenta, v.Duration().String()
	case slog.KindTime:
		color, text = colorBlue, v.Time().String()
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, a.Key+"="+a.Value.Resolve().String())
		}

		text = "{" + strings.Join(parts, " ") + "}"
	default:
		if v.Any() == nil {
			color, text = colorGray, "null"
		} else {
			text = v.String()
		}
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

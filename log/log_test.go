package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func plain(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{WithPretty(false)}, opts...)...)
}

func TestMake_Defaults(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf)

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("got level %v format %v", l.Level(), l.Format())
	}

	if l.caller != DefaultCaller || l.pretty != DefaultPretty {
		t.Errorf("got caller %v pretty %v", l.caller, l.pretty)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer

	l := plain(&buf, WithLevel(LevelWarn))

	l.Info("quiet")
	l.Debug("quieter")

	if buf.Len() != 0 {
		t.Fatalf("unexpected output: %s", buf.String())
	}

	l.Warn("loud")

	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("expected warning, got %q", buf.String())
	}
}

func TestLogger_Trace(t *testing.T) {
	var buf bytes.Buffer

	l := plain(&buf, WithLevel(LevelTrace), WithFormat(FormatText))
	l.TraceContext(t.Context(), "step", slog.Int("depth", 3))

	out := buf.String()
	if !strings.Contains(out, "level=TRACE") || !strings.Contains(out, "depth=3") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := plain(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	l.Error("failed", slog.String("key", "text-size"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if rec["msg"] != "failed" || rec["key"] != "text-size" || rec["level"] != "ERROR" {
		t.Errorf("unexpected record: %v", rec)
	}

	if _, ok := rec["time"]; ok {
		t.Error("time should be omitted")
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	l := plain(&buf, WithCaller(true), WithFormat(FormatText))
	l.Info("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller in output, got %q", buf.String())
	}

	buf.Reset()
	plain(&buf, WithFormat(FormatText)).Info("here")

	if strings.Contains(buf.String(), "source=") {
		t.Errorf("unexpected caller in output: %q", buf.String())
	}
}

func TestLogger_With(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		l := Make(&buf, WithPretty(pretty), WithFormat(FormatText)).
			With(slog.String("component", "parser"))
		l.Info("ok")

		if !strings.Contains(buf.String(), "component") ||
			!strings.Contains(buf.String(), "parser") {
			t.Errorf("pretty=%v: attrs dropped: %q", pretty, buf.String())
		}
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := plain(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError || wrapped.Level() != LevelDebug {
		t.Errorf("got base %v wrapped %v", base.Level(), wrapped.Level())
	}

	wrapped.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("wrapped logger should share the output")
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Error("nothing")
	l.With(slog.Int("n", 1)).Info("still nothing")

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero logger should report defaults")
	}

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero logger should not be enabled")
	}
}

func TestPrettyHandler(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatText)).Warn("hi", slog.Bool("ok", true))

		out := buf.String()
		for _, want := range []string{colorYellow + "WARN", "hi", colorGreen + "true"} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q in %q", want, out)
			}
		}

		if strings.Count(out, "\n") != 1 {
			t.Errorf("expected one line, got %q", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatJSON)).
			With(slog.Int("n", 7)).
			Info("hi", slog.Any("nothing", nil))

		out := buf.String()
		if !strings.HasPrefix(out, "{\n") || !strings.HasSuffix(out, "\n}\n") {
			t.Errorf("unexpected framing: %q", out)
		}

		for _, want := range []string{colorYellow + "7", "null"} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q in %q", want, out)
			}
		}
	})

	t.Run("group", func(t *testing.T) {
		var buf bytes.Buffer

		l := Make(&buf, WithFormat(FormatText))
		slog.New(l.Handler().WithGroup("req")).Info("hi", slog.String("id", "x"))

		if !strings.Contains(buf.String(), "req.id") {
			t.Errorf("expected grouped key, got %q", buf.String())
		}
	})
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText))

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Go(func() { l.Info("msg", slog.Int("i", i)) })
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 16 {
		t.Errorf("expected 16 records, got %d", got)
	}
}

func TestDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer

	SetDefault(plain(&buf, WithFormat(FormatText)))
	Config(WithLevel(LevelDebug))

	Debug("from default", slog.String("k", "v"))
	With(slog.Int("n", 1)).Info("scoped")

	out := buf.String()
	if !strings.Contains(out, "from default") || !strings.Contains(out, "n=1") {
		t.Errorf("unexpected output: %q", out)
	}
}

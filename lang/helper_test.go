package lang_test

import (
	"io"

	"github.com/ardnew/stylexpr/log"
)

func newTestLogger(w io.Writer) log.Logger {
	return log.Make(w,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithPretty(false))
}

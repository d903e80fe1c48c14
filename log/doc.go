// Package log is a small leveled logger built on [log/slog].
//
// Loggers are configured once with functional options and are safe for
// concurrent use:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("Kitchen"))
//
//	logger.Info("converted", slog.String("property", "line-width"))
//
// Attributes are typed [slog.Attr] values rather than alternating key/value
// arguments. [Logger.With] returns a logger that adds attributes to every
// record.
//
// The package also keeps a default logger, written to standard error, used
// by the package-level functions ([Info], [Debug], ...) and reconfigured
// with [Config]. Calls without a context use [DefaultContextProvider].
//
// Levels range from [LevelTrace] through [LevelError]. The pretty handler,
// enabled by default, colorizes records for terminals in both [FormatText]
// and [FormatJSON]; disable it with [WithPretty] for machine-readable output.
package log

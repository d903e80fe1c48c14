// Package cli contains the command line interface for stylexpr.
//
// # Commands
//
//	stylexpr parse [source ...]    print the typed tree of each expression
//	stylexpr convert [source ...]  convert style functions to expressions
//	stylexpr check [source ...]    convert and parse every property
//	stylexpr defs [pattern]        list operator definitions
//	stylexpr repl                  interactive session (default)
//
// A source of "-" reads stdin.
//
// # Definitions
//
// The built-in operator table can be extended or overridden with a YAML or
// JSON definitions file:
//
//	stylexpr --definitions=extra.yaml check style.yaml
//
// Relative names are searched along --definitions-path, which defaults to
// the configuration directory followed by the working directory. Without
// --definitions, definitions.yaml in the configuration directory is loaded
// if it exists.
//
// # Configuration
//
// Flag defaults are read from config.yaml and config.json in the
// configuration directory (for example ~/.config/stylexpr). YAML keys may be
// nested under a top-level "config" key, and nested mappings are joined
// with hyphens:
//
//	config:
//	  log:
//	    level: debug
//	  definitions: extra.yaml
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (see [profile.Modes])
//   - --pprof-dir: Set profile output directory
package cli

// Package cmd implements the stylexpr subcommands: parse, convert, check,
// defs and repl.
//
// Commands read their inputs from files named on the command line, or from
// stdin given as "-". Input formats are chosen by file extension unless
// --input is given; stdin is read as YAML, which also accepts JSON.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the configuration file.
	ConfigIdentifier = "config"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default expression nesting limit.
	MaxDepthIdentifier = "maxDepth"
)

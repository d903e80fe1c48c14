package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stylexpr/lang"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the output stream of the running command.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

type definitionsKey struct{}

// WithDefinitions returns a new context.Context containing the operator
// definitions used by commands that parse expressions.
func WithDefinitions(ctx context.Context, defs lang.Definitions) context.Context {
	return context.WithValue(ctx, definitionsKey{}, defs)
}

// definitionsFrom returns the definitions stored by [WithDefinitions], or
// the built-in table if there are none.
func definitionsFrom(ctx context.Context) lang.Definitions {
	if defs, ok := ctx.Value(definitionsKey{}).(lang.Definitions); ok &&
		len(defs) > 0 {
		return defs
	}

	return lang.DefaultDefinitions()
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is an opened input file.
type source struct {
	io.ReadCloser

	name   string
	format lang.Format
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens the named sources in order, skipping duplicates.
//
// Duplicates are detected by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin source
// placed last. An input of "auto" selects each format by file extension,
// and YAML for stdin; any other input names the format of every source.
//
// On error, sources already opened are closed.
func openSources(names []string, input string) (srcs []source, err error) {
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	defer func() {
		if err != nil {
			closeSources(srcs)

			srcs = nil
		}
	}()

	seen := make(map[fileKey]struct{})

	stdinKey, hasStdinKey := fileKey{}, false
	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, hasStdinKey = makeFileKey(info)
	}

	hasStdin := false

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		file, key, err := openUniqueFile(name, seen)
		if err != nil {
			return srcs, ErrOpenSource.Wrap(err).With(slog.String("source", name))
		}

		if file == nil {
			continue
		}

		// Stdin named as a file is read once, last.
		if hasStdinKey && key == stdinKey {
			file.Close()

			hasStdin = true

			continue
		}

		format, err := sourceFormat(name, input)
		if err != nil {
			file.Close()

			return srcs, err
		}

		srcs = append(srcs, source{ReadCloser: file, name: name, format: format})
	}

	if hasStdin {
		format, err := sourceFormat(stdinSource, input)
		if err != nil {
			return srcs, err
		}

		srcs = append(srcs, source{
			ReadCloser: io.NopCloser(os.Stdin),
			name:       stdinSource,
			format:     format,
		})
	}

	return srcs, nil
}

func closeSources(srcs []source) {
	for _, src := range srcs {
		src.Close()
	}
}

func sourceFormat(name, input string) (lang.Format, error) {
	switch {
	case input != "" && input != "auto":
		return lang.ParseFormat(input)
	case name == stdinSource:
		return lang.FormatYAML, nil
	default:
		return lang.FormatOf(name), nil
	}
}

// openUniqueFile opens the file at path unless a file with the same key was
// seen before, in which case it returns a nil file.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	if info.IsDir() {
		return nil, fileKey{}, errors.New("is a directory")
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// output selects the encoding of command results.
type output struct {
	Format string `default:"json" enum:"json,yaml" help:"Output format."                          short:"f"`
	Indent int    `default:"2"                     help:"Indent width, or 0 for compact output." short:"i"`
}

func (o output) write(ctx context.Context, w io.Writer, v any) error {
	format, err := lang.ParseFormat(o.Format)
	if err != nil {
		return err
	}

	if err := lang.Encode(ctx, w, v, format, o.Indent); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// sourceError attaches the name of src to err.
func sourceError(err error, src source) error {
	return lang.WrapError(err).With(slog.String("source", src.name))
}

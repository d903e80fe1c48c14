package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Format is a document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseFormat returns the format named by s ("json", "yaml" or "yml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, ErrUnknownFormat.With(slog.String("format", s))
	}
}

// FormatOf guesses the format of a file from its extension.
// Files without a YAML extension are assumed to be JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads one raw expression document from r.
//
// YAML is converted to JSON before decoding, so numbers decode as float64
// in either format.
func Decode(ctx context.Context, r io.Reader, format Format) (any, error) {
	var node any

	if err := decodeInto(r, format, &node); err != nil {
		return nil, err
	}

	return node, nil
}

// DecodeString is like [Decode] for an in-memory document.
func DecodeString(ctx context.Context, s string, format Format) (any, error) {
	return Decode(ctx, strings.NewReader(s), format)
}

// decodeInto decodes with plain json.Unmarshal; goccy's context-aware
// decoding requires context-aware UnmarshalJSON methods on every target.
func decodeInto(r io.Reader, format Format, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return ErrReadInput.Wrap(err)
	}

	switch format {
	case FormatYAML:
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return ErrDecode.Wrap(err).With(slog.String("format", format.String()))
		}

	case FormatJSON:

	default:
		return ErrUnknownFormat.With(slog.String("format", format.String()))
	}

	if err := json.Unmarshal(data, v); err != nil {
		return ErrDecode.Wrap(err).With(slog.String("format", format.String()))
	}

	return nil
}

// Encode writes v to w in the given format followed by a newline.
// An indent of zero selects the compact form (flow style for YAML).
func Encode(
	ctx context.Context,
	w io.Writer,
	v any,
	format Format,
	indent int,
) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatJSON:
		if indent > 0 {
			data, err = json.MarshalIndentWithOption(
				v, "", strings.Repeat(" ", indent), json.DisableHTMLEscape(),
			)
		} else {
			data, err = json.MarshalWithOption(v, json.DisableHTMLEscape())
		}

	case FormatYAML:
		opts := []yaml.EncodeOption{yaml.Flow(true)}
		if indent > 0 {
			opts = []yaml.EncodeOption{yaml.Indent(indent)}
		}

		data, err = yaml.MarshalContext(ctx, v, opts...)
		data = []byte(strings.TrimRight(string(data), "\n"))

	default:
		return ErrUnknownFormat.With(slog.String("format", format.String()))
	}

	if err != nil {
		return ErrEncode.Wrap(err)
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return ErrEncode.Wrap(err)
	}

	return nil
}

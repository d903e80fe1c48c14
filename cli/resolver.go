package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/iancoleman/strcase"

	"github.com/ardnew/stylexpr/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from a
// YAML config file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config.yaml")
//
// Values are read from the mapping under the top-level key name, or from the
// top-level mapping itself if there is no such key. Nested mappings are
// flattened by joining keys with hyphens, so both of
//
//	config:
//	  log-level: debug
//	  max_depth: 64
//
//	log:
//	  level: debug
//
// set --log-level=debug. Keys may be written in snake or camel case, so
// max_depth and maxDepth both set --max-depth.
//
// A file that is not valid YAML is ignored with a warning. Command-line flags
// override config file values.
func resolve(
	ctx context.Context,
	name string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]any

		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			log.WarnContext(ctx, "ignoring invalid config",
				slog.String("namespace", name),
				slog.Any("error", err))

			return config{}, nil
		}

		if ns, ok := doc[name].(map[string]any); ok {
			doc = ns
		}

		cfg := config{}
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten stores the leaves of m under hyphen-joined keys.
func (r config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		key = strcase.ToKebab(key)
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := value.(map[string]any); ok {
			r.flatten(key, sub)

			continue
		}

		r[key] = scalar(value)
	}
}

// scalar converts numbers to strings, which Kong requires for parsing.
func scalar(value any) any {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = scalar(item)
		}

		return out
	default:
		return v
	}
}

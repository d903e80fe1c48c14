package cli

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stylexpr/cli/cmd"
	"github.com/ardnew/stylexpr/lang"
	"github.com/ardnew/stylexpr/log"
	"github.com/ardnew/stylexpr/pkg"
)

// CLI is the top-level command-line interface for stylexpr.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Definitions     string `help:"Operator definitions file merged over the built-in table." placeholder:"FILE"                        short:"d"`
	DefinitionsPath string `default:"${definitionsPath}"                                     help:"Directories searched for the definitions file."`

	Parse   cmd.Parse   `cmd:"" help:"Parse expressions and print their typed trees."`
	Convert cmd.Convert `cmd:"" help:"Convert style functions to expressions."`
	Check   cmd.Check   `cmd:"" help:"Convert style documents and parse every result."`
	Defs    cmd.Defs    `cmd:"" help:"List operator definitions."`

	Repl cmd.Repl `cmd:"" default:"1" help:"Start an interactive expression session."`
}

// Run executes the stylexpr CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":              pkg.Version,
		"definitionsPath":      lang.SearchPath("", configDir(), "."),
		cmd.ConfigIdentifier:   configFilePath,
		cmd.CacheIdentifier:    cacheDir(),
		cmd.MaxDepthIdentifier: strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx, baseConfig), configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	defs, err := cli.definitions(ctx)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithDefinitions(ctx, defs)

	return ktx.Run(ctx, &cli)
}

// definitions returns the built-in operator table overridden by the
// definitions file, if any.
//
// Without --definitions, a file named definitions.yaml in the configuration
// directory is used when it exists.
func (c *CLI) definitions(ctx context.Context) (lang.Definitions, error) {
	defs := lang.DefaultDefinitions()

	name := c.Definitions
	if name == "" {
		name = configPath(baseDefinitions)
		if _, err := os.Stat(name); err != nil {
			return defs, nil
		}
	}

	user, err := lang.ReadDefinitions(ctx, name, c.DefinitionsPath)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "definitions loaded",
		slog.String("name", name),
		slog.Int("count", len(user)))

	return defs.Merge(user), nil
}

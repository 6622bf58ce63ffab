// FILE: lixenwraith/layercfg/cmd/layercfg/root.go
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	config "github.com/lixenwraith/layercfg"
)

// options holds the global flags. Sources are layered lowest first, by kind
// rather than by position on the command line: every --file, every --ini,
// every --dotenv, the environment, then the arguments after "--". Repeats of
// one flag keep their relative order.
type options struct {
	root      string
	files     []string
	iniFiles  []string
	dotenv    []string
	envPrefix string
	useEnv    bool
	optional  bool
	aliases   []string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "layercfg",
		Short: "Inspect layered configuration assembled from files, environment and arguments",
		Long: `layercfg merges configuration sources into one flattened key namespace.
Later sources override earlier ones. Arguments after "--" are parsed as
command-line configuration, e.g.

  layercfg --ini app.ini dump -- --Db:host=prod -p 5433`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.root, "root", ".", "directory that file paths are resolved against")
	flags.StringArrayVar(&opts.files, "file", nil, "TOML, JSON or YAML file (repeatable)")
	flags.StringArrayVar(&opts.iniFiles, "ini", nil, "INI file (repeatable)")
	flags.StringArrayVar(&opts.dotenv, "dotenv", nil, ".env file (repeatable)")
	flags.StringVar(&opts.envPrefix, "env-prefix", "", "load environment variables with this prefix")
	flags.BoolVar(&opts.useEnv, "env", false, "load environment variables (implied by --env-prefix)")
	flags.BoolVar(&opts.optional, "optional", false, "tolerate missing files")
	flags.StringArrayVar(&opts.aliases, "alias", nil, "switch mapping alias=key for arguments after \"--\" (repeatable)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log source loading to stderr")

	cmd.AddCommand(
		newGetCmd(opts),
		newDumpCmd(opts),
		newChildrenCmd(opts),
	)
	return cmd
}

func (o *options) logger(w io.Writer) zerolog.Logger {
	if !o.verbose {
		return zerolog.Nop()
	}
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
	return zerolog.New(console).
		With().Timestamp().Logger().
		Level(zerolog.DebugLevel)
}

// build assembles the configuration from the flags and the config arguments
func (o *options) build(cmd *cobra.Command, configArgs []string) (*config.Config, error) {
	provider := config.NewDirProvider(o.root)

	b := config.NewBuilder().WithLogger(o.logger(cmd.ErrOrStderr()))
	for _, f := range o.files {
		b.AddFile(provider, f, o.optional)
	}
	for _, f := range o.iniFiles {
		b.AddIniFile(provider, f, o.optional)
	}
	for _, f := range o.dotenv {
		b.AddDotEnvFile(provider, f, o.optional)
	}
	if o.useEnv || o.envPrefix != "" {
		b.AddEnv(o.envPrefix)
	}

	if len(o.aliases) > 0 {
		mappings := make(map[string]string, len(o.aliases))
		for _, a := range o.aliases {
			alias, key, ok := strings.Cut(a, "=")
			if !ok {
				return nil, fmt.Errorf("invalid --alias %q, expected alias=key", a)
			}
			mappings[alias] = key
		}
		b.AddCommandLineWithMappings(configArgs, mappings)
	} else {
		b.AddCommandLine(configArgs)
	}

	return b.Build()
}

// splitArgs separates positional arguments from the configuration arguments after "--"
func splitArgs(cmd *cobra.Command, args []string) (positional, configArgs []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}

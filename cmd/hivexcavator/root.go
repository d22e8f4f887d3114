package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/joshuapare/hivexcavator/excavate"
	"github.com/joshuapare/hivexcavator/internal/config"
	"github.com/joshuapare/hivexcavator/internal/style"
)

// rootFlags holds the parsed command line.
type rootFlags struct {
	noColor    bool
	debug      bool
	jsonOut    bool
	verbose    bool
	maxDepth   int
	indent     int
	configPath string
}

func newRootCmd(stdout, stderr io.Writer, getenv func(string) string) *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   "hivexcavator [flags] <bcd>",
		Short: "Display the tree of a BCD store or any registry hive",
		Long: `hivexcavator extracts the content of a Windows Boot Configuration Data
(BCD) store, or any other registry hive, and prints every key and value as an
indented tree. Values are decoded by type: strings as text, dwords and qwords
as lowercase hex, everything else as Windows-1252 text.

Settings are read from $XDG_CONFIG_HOME/hivexcavator/config.toml when present.
NO_COLOR disables colors, as does --no-color or a non-terminal stdout.

Example:
  hivexcavator ~/test/pxe/conf.bcd
  hivexcavator --json conf.bcd`,
		Args:          cobra.ExactArgs(1),
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args, getenv)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.BoolVar(&f.noColor, "no-color", false, "Disable colorized output (NO_COLOR is respected too)")
	flags.BoolVar(&f.debug, "debug", false, "Print the parsed arguments before running")
	flags.BoolVar(&f.jsonOut, "json", false, "Write one JSON object per line instead of text")
	flags.IntVar(&f.maxDepth, "max-depth", 0, "Fail when the tree is deeper than `N` levels (default from config, 512)")
	flags.IntVar(&f.indent, "indent", -1, "Spaces per depth level (default from config, 2)")
	flags.StringVar(&f.configPath, "config", "", "Read settings from `PATH` instead of the default location")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, f rootFlags, args []string, getenv func(string) string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	level := log.InfoLevel
	if f.verbose {
		level = log.DebugLevel
	}
	logger := newLogger(stderr, level)

	if f.debug {
		printArgs(stderr, cmd, args)
	}

	cfg, err := resolveConfig(cmd, f, getenv, stdout)
	if err != nil {
		return err
	}
	logger.Debug("settings", "color", cfg.Color, "indent", cfg.Indent, "max_depth", cfg.MaxDepth, "format", cfg.Format)

	var sink excavate.Sink
	switch cfg.Format {
	case config.FormatJSON:
		sink = excavate.NewJSONSink(stdout)
	default:
		sink = excavate.NewTextSink(stdout, style.New(stdout, cfg.Palette, cfg.Color))
	}

	e, err := excavate.Open(args[0],
		excavate.WithSink(sink),
		excavate.WithLogger(logger),
		excavate.WithMaxDepth(cfg.MaxDepth),
		excavate.WithIndent(cfg.Indent),
	)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.Display(); err != nil {
		return fmt.Errorf("display %s: %w", args[0], err)
	}
	return nil
}

// resolveConfig layers defaults, the config file, the environment and the
// flags that were set explicitly.
func resolveConfig(cmd *cobra.Command, f rootFlags, getenv func(string) string, stdout io.Writer) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(getenv)

	flags := cmd.Flags()
	if f.noColor {
		cfg.Color = false
	}
	if f.jsonOut {
		cfg.Format = config.FormatJSON
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if flags.Changed("indent") {
		cfg.Indent = f.indent
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	if file, ok := stdout.(*os.File); !ok || !config.IsTerminal(file) {
		cfg.Color = false
	}
	return cfg, nil
}

// printArgs lists every flag and positional argument as parsed.
func printArgs(w io.Writer, cmd *cobra.Command, args []string) {
	cmd.Flags().VisitAll(func(fl *pflag.Flag) {
		fmt.Fprintf(w, "%s=%s\n", fl.Name, fl.Value.String())
	})
	for i, a := range args {
		fmt.Fprintf(w, "arg[%d]=%s\n", i, a)
	}
}

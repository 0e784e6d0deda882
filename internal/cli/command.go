package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/viddup/internal/config"
	"github.com/idelchi/viddup/internal/digest"
	"github.com/idelchi/viddup/internal/dupes"
	"github.com/idelchi/viddup/internal/errs"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// options collects everything the scan command needs.
type options struct {
	dupes.Options

	// ConfigPath is the YAML config file.
	ConfigPath string
	// RawChunkSize and RawPartialSize are humanized byte sizes from the flags.
	RawChunkSize   string
	RawPartialSize string
	// Output represents output format (table or json).
	Output string
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Version indicates whether to show version and exit.
	Version bool
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"table", "json"}

func description() string {
	return heredoc.Doc(`
		viddup finds byte-identical video files and groups them into duplicate buckets.

		Files are compared in tiers: by size, then by a digest of their first
		bytes, and only the remaining candidates are hashed completely.

		Positional Arguments:
		  path                   Directory to scan. Defaults to current directory if not specified.

		Settings are read from the config file (if present) and overridden by flags.
	`)
}

// Execute runs the CLI with the process arguments. An interrupt cancels the scan.
func (c CLI) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func (c CLI) run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := c.command()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd.ExecuteContext(ctx)
}

// command builds the root command and its subcommands.
func (c CLI) command() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "viddup [flags] [path]",
		Short:         "Find duplicate video files",
		Long:          description(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Version {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			opts.Path = "."
			if len(args) > 0 {
				opts.Path = args[0]
			}

			if err := resolve(cmd.Flags(), &opts); err != nil {
				return err
			}

			return logic(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := root.Flags()
	flags.SortFlags = false

	flags.BoolVarP(&opts.Recursive, "recursive", "r", false, "Descend into subdirectories")
	flags.StringSliceVarP(&opts.Extensions, "ext", "x", nil, "Accepted video extensions (default mp4,mov,webm)")
	flags.StringVarP(&opts.Algorithm, "algorithm", "a", digest.Default,
		fmt.Sprintf("Digest algorithm: one of %v", digest.Names()))
	flags.StringVar(&opts.RawChunkSize, "chunk-size", "1KiB", "Read size for full-file hashing (e.g. 64KiB)")
	flags.StringVar(&opts.RawPartialSize, "partial-size", "1KiB", "Number of leading bytes compared by the partial hash")
	flags.IntVarP(&opts.Workers, "workers", "w", runtime.NumCPU(), "Number of files hashed concurrently")
	flags.StringVarP(&opts.Output, "output", "o", "table", "Output format: json or table")
	flags.StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "Config file path")
	flags.BoolVar(&opts.Advanced, "advanced", false, "Also search for near-duplicates (not supported yet)")
	flags.BoolVar(&opts.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&opts.Version, "version", "v", false, "Show version and exit")

	root.AddCommand(durationCommand())

	return root
}

// resolve merges the config file with explicitly set flags and validates the result.
func resolve(flags *pflag.FlagSet, opts *options) error {
	if !slices.Contains(allowedOutputs, opts.Output) {
		return errs.New(errs.CodeInvalidConfig, "invalid output format %q: must be one of %v", opts.Output, allowedOutputs)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if flags.Changed("recursive") {
		cfg.Recursive = opts.Recursive
	}

	if flags.Changed("ext") {
		cfg.Extensions = opts.Extensions
	}

	if flags.Changed("algorithm") {
		cfg.Algorithm = opts.Algorithm
	}

	if flags.Changed("chunk-size") {
		cfg.ChunkSize = opts.RawChunkSize
	}

	if flags.Changed("partial-size") {
		cfg.PartialSize = opts.RawPartialSize
	}

	if flags.Changed("workers") {
		if opts.Workers < 1 {
			return errs.New(errs.CodeInvalidConfig, "workers must be at least 1")
		}

		cfg.Workers = opts.Workers
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	opts.Recursive = cfg.Recursive
	opts.Extensions = cfg.Extensions
	opts.Algorithm = cfg.Algorithm
	opts.ChunkSize = cfg.ChunkBytes()
	opts.PartialSize = cfg.PartialBytes()
	opts.Workers = cfg.Workers

	return nil
}

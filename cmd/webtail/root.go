package main

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cobra.Command {
	ctx := newCommandContext()
	serve := &serveOptions{}

	rootCmd := &cobra.Command{
		Use:   "webtail [flags] SOURCE",
		Short: "Serve the tail of a log file over HTTP",
		Long: "webtail serves the last lines of a log file as an auto-refreshing web page.\n\n" +
			"SOURCE is a file, a directory, or a glob pattern. For directories and\n" +
			"patterns the most recently modified file is tailed, re-evaluated on\n" +
			"every request.",
		Version:       version,
		Args:          maxSourceArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, ctx, serve, args)
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	persistent.IntVarP(&ctx.lines, "lines", "n", 10, "Output the last K lines")
	persistent.StringVar(&ctx.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	persistent.StringVar(&ctx.logFormat, "log-format", "", "Log format (console, json)")

	flags := rootCmd.Flags()
	flags.BoolVarP(&serve.showFilename, "output-filename", "o", false, "Also output the filename in the page")
	flags.IntVarP(&serve.port, "listener-port", "l", 0, "HTTP listener port")
	flags.StringVarP(&serve.bind, "bind", "b", "", "Listener address (default 0.0.0.0)")
	flags.IntVar(&serve.maxConcurrent, "max-concurrent", 0, "Maximum in-flight requests (0 = unlimited)")

	rootCmd.AddCommand(newTailCommand(ctx))
	rootCmd.AddCommand(newResolveCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func maxSourceArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return usageErrorf("expected a single SOURCE, got %d arguments", len(args))
	}
	return nil
}

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"webtail/internal/logging"
	"webtail/internal/preflight"
	"webtail/internal/server"
)

type serveOptions struct {
	showFilename  bool
	port          int
	bind          string
	maxConcurrent int
}

func runServe(cmd *cobra.Command, ctx *commandContext, opts *serveOptions, args []string) error {
	cfg, err := ctx.resolve(cmd, args)
	if err != nil {
		return err
	}
	if flagChanged(cmd, "output-filename") {
		cfg.Tail.ShowFilename = opts.showFilename
	}
	if flagChanged(cmd, "listener-port") {
		cfg.Server.Port = opts.port
	}
	if flagChanged(cmd, "bind") {
		cfg.Server.Bind = strings.TrimSpace(opts.bind)
	}
	if flagChanged(cmd, "max-concurrent") {
		cfg.Server.MaxConcurrent = opts.maxConcurrent
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{err: err}
	}
	if err := cfg.ValidateServe(); err != nil {
		return &usageError{err: err}
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	for _, result := range preflight.Failed(preflight.RunAll(cfg)) {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "run `webtail check` for details"),
			logging.String(logging.FieldImpact, "page shows an empty tail until the source is readable"),
		)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := srv.Start(cmd.Context()); err != nil {
		return err
	}
	return srv.Wait()
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"webtail/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [SOURCE]",
		Short: "Verify the source and configured paths are usable",
		Args:  maxSourceArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.resolve(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cfg)
			writeLines(out, renderSectionHeader("Preflight", colorize))
			fmt.Fprintln(out, renderPreflight(results))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
			}
			return nil
		},
	}
}

func renderPreflight(results []preflight.Result) string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
		}
		rows = append(rows, []string{result.Name, status, result.Detail})
	}
	return renderTable([]tableColumn{
		{header: "Check"},
		{header: "Status"},
		{header: "Detail"},
	}, rows)
}

package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"webtail/internal/source"
)

const modTimeLayout = "2006-01-02 15:04:05"

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var showCandidates bool

	cmd := &cobra.Command{
		Use:   "resolve [SOURCE]",
		Short: "Show which file would be tailed",
		Args:  maxSourceArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.requireSource(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !showCandidates {
				path, ok := source.Resolve(cfg.Source)
				if !ok {
					return fmt.Errorf("no file matches %s", cfg.Source)
				}
				fmt.Fprintln(out, path)
				return nil
			}

			kind, candidates := source.Candidates(cfg.Source)
			colorize := shouldColorize(out)
			latest, ok := source.Latest(candidates)
			if !ok {
				fmt.Fprintln(out, renderStatusLine("Source", statusWarn, fmt.Sprintf("%s (%s, no files)", cfg.Source, kind), colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Source", statusInfo, fmt.Sprintf("%s (%s)", cfg.Source, kind), colorize))
			fmt.Fprintln(out, renderStatusLine("Tailing", statusOK, latest.Path, colorize))
			fmt.Fprintln(out, renderCandidates(candidates, latest, time.Now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCandidates, "candidates", false, "List every candidate file, newest first")
	return cmd
}

func renderCandidates(candidates []source.Candidate, latest source.Candidate, now time.Time) string {
	sorted := source.SortNewestFirst(candidates)
	rows := make([][]string, 0, len(sorted))
	for i, c := range sorted {
		marker := ""
		if c.Path == latest.Path {
			marker = "*"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			marker,
			c.Path,
			c.ModTime.Local().Format(modTimeLayout),
			humanize.RelTime(c.ModTime, now, "ago", "from now"),
			humanize.IBytes(uint64(max(c.Size, 0))),
		})
	}
	return renderTable([]tableColumn{
		{header: "#", align: text.AlignRight},
		{header: ""},
		{header: "Path"},
		{header: "Modified"},
		{header: "Age"},
		{header: "Size", align: text.AlignRight},
	}, rows)
}

func writeLines(out io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"webtail/internal/api"
	"webtail/internal/remote"
)

func newTailCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var remoteAddr string

	cmd := &cobra.Command{
		Use:   "tail [SOURCE]",
		Short: "Print the last lines of the newest matching file once",
		Args:  maxSourceArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(remoteAddr) != "" {
				if len(args) > 0 || flagChanged(cmd, "lines") {
					return usageErrorf("--remote serves the server's source and line count; drop SOURCE and -n")
				}
				return tailRemote(cmd, remoteAddr, asJSON)
			}

			cfg, err := ctx.requireSource(cmd, args)
			if err != nil {
				return err
			}
			snap, err := api.NewTailService(cfg).Snapshot(cmd.Context())
			if asJSON {
				if encErr := writeJSON(cmd, api.FromSnapshot(snap, err)); encErr != nil {
					return encErr
				}
				return err
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", snap.File, err)
			}
			if !snap.Found {
				fmt.Fprintf(cmd.ErrOrStderr(), "no file matches %s\n", snap.Source)
				return nil
			}
			writeLines(cmd.OutOrStdout(), snap.Lines)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the snapshot as JSON")
	cmd.Flags().StringVar(&remoteAddr, "remote", "", "Fetch from a running webtail server (host:port or URL); its source and line count apply")
	return cmd
}

func tailRemote(cmd *cobra.Command, addr string, asJSON bool) error {
	client, err := remote.NewClient(addr)
	if err != nil {
		return err
	}
	resp, err := client.Fetch(cmd.Context())
	if err != nil {
		if remote.IsUnavailable(err) {
			return fmt.Errorf("connect to %s: %w; verify webtail is running", addr, err)
		}
		return err
	}
	if asJSON {
		return writeJSON(cmd, resp)
	}
	if resp.Error != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "server could not read %s: %s\n", resp.File, resp.Error)
	}
	if !resp.Found {
		fmt.Fprintf(cmd.ErrOrStderr(), "no file matches %s\n", resp.Source)
		return nil
	}
	writeLines(cmd.OutOrStdout(), resp.Lines)
	return nil
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines := renderSectionHeader("Posterlang Daemon", colorize)

			runningKind := statusError
			runningMsg := "stopped"
			if status.Running {
				runningKind = statusOK
				runningMsg = fmt.Sprintf("pid %d", status.PID)
			}
			lines = append(lines, renderStatusLine("Daemon", runningKind, runningMsg, colorize))

			enabledKind := statusWarn
			if status.Enabled {
				enabledKind = statusOK
			}
			lines = append(lines, renderStatusLine("Provider", enabledKind, yesNo(status.Enabled), colorize))
			lines = append(lines, renderStatusLine("Strategy", statusInfo, status.Strategy, colorize))
			lines = append(lines, renderStatusLine("Cache entries", statusInfo, fmt.Sprintf("%d", status.CacheEntries), colorize))
			lines = append(lines, renderStatusLine("History entries", statusInfo, fmt.Sprintf("%d", status.HistoryEntries), colorize))
			lines = append(lines, renderStatusLine("Pending facts", statusInfo, fmt.Sprintf("%d", status.PendingFacts), colorize))
			if status.Running {
				lines = append(lines, renderStatusLine("Uptime", statusInfo, (time.Duration(status.UptimeSeconds)*time.Second).String(), colorize))
			}
			lines = append(lines, renderStatusLine("Lock file", statusInfo, status.LockFilePath, colorize))

			warmKind := statusInfo
			warmMsg := "idle"
			if status.WarmRunning {
				warmKind = statusOK
				warmMsg = "running"
			} else if status.LastWarm != nil {
				warmMsg = fmt.Sprintf("last run: %d scanned, %d resolved, %d failed",
					status.LastWarm.Scanned, status.LastWarm.Resolved, status.LastWarm.Failed)
			}
			lines = append(lines, renderStatusLine("Warm task", warmKind, warmMsg, colorize))

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit status as JSON")
	return cmd
}

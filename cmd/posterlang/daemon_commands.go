package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"posterlang/internal/api"
)

func newObserveCommand(ctx *commandContext) *cobra.Command {
	var req api.ObserveRequest

	cmd := &cobra.Command{
		Use:   "observe",
		Short: "Publish an observed original-language fact to the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			accepted, err := client.Observe(cmd.Context(), req)
			if err != nil {
				return err
			}
			if !accepted {
				return fmt.Errorf("observation rejected; provide at least one external id")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Observation recorded")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.TMDBID, "tmdb", "", "TMDB id")
	cmd.Flags().StringVar(&req.IMDBID, "imdb", "", "IMDB id")
	cmd.Flags().StringVar(&req.TVDBID, "tvdb", "", "TVDB id")
	cmd.Flags().StringVar(&req.Language, "language", "", "Observed BCP-47 language tag")
	return cmd
}

func newEnableCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Enable artwork selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setEnabled(ctx, cmd, true)
		},
	}
}

func newDisableCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Disable artwork selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setEnabled(ctx, cmd, false)
		},
	}
}

func setEnabled(ctx *commandContext, cmd *cobra.Command, enabled bool) error {
	client, err := ctx.client()
	if err != nil {
		return err
	}
	state, err := client.SetEnabled(cmd.Context(), enabled)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Provider enabled: %s\n", yesNo(state))
	return nil
}

func newWarmCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "warm",
		Short: "Start a library-wide language cache warming run",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if _, err := client.Warm(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Warm run started; check `posterlang status` for progress")
			return nil
		},
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the robot server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.pollTimeout())
			defer cancel()

			resp, err := a.api().Ping(ctx)
			if err != nil {
				return fmt.Errorf("ping %s: %w", a.cfg.BaseURL(), err)
			}

			out := cmd.OutOrStdout()
			writeln(out, labelStyle.Render("server: ")+resp.Server)
			v1 := errorStyle.Render("no")
			if resp.SupportsV1() {
				v1 = okStyle.Render("supported")
			}
			writeln(out, labelStyle.Render("v1:     ")+v1)
			return nil
		},
	}
}

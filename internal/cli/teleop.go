package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-botblocks/pkg/teleop"
)

func newTeleopCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "teleop",
		Short: "Drive the robot with the keyboard",
		Long: `Drive the robot with the arrow keys. Space stops, + and - change speed,
q stops the motors and quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := teleop.New(cmd.Context(), a.driver(),
				teleop.WithTitle(fmt.Sprintf("botblocks teleop: %s @ %s", a.cfg.Platform, a.cfg.HostPort())),
			)
			_, err := tea.NewProgram(model,
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}

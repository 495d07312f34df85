package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-botblocks/pkg/blocks"
)

func newBlocksCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "List and run the platform's blocks",
	}
	cmd.AddCommand(newBlocksListCommand(a))
	cmd.AddCommand(newBlocksCallCommand(a))
	return cmd
}

func newBlocksListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the blocks and menus of the configured platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := a.extension()
			d := ext.Descriptor()
			out := cmd.OutOrStdout()

			writeln(out, titleStyle.Render(ext.Name()))
			for _, b := range d.Blocks {
				fmt.Fprintf(out, "  %-3s %s  %s\n", "["+string(b.Type)+"]", opcodeStyle.Render(b.Opcode), b.Template)
			}
			writeln(out, "")
			writeln(out, titleStyle.Render("Menus"))
			for _, name := range sortedKeys(d.Menus) {
				fmt.Fprintf(out, "  %s: %s\n", name, strings.Join(d.Menus[name], ", "))
			}
			return nil
		},
	}
}

func newBlocksCallCommand(a *app) *cobra.Command {
	var async bool
	cmd := &cobra.Command{
		Use:   "call <opcode> [args...]",
		Short: "Run one block",
		Long: `Run one block the way the editor would. Numeric words are passed as
numbers, everything else as text. Commands print "done" whether or not the
robot accepted them; reporters print their value, or their fallback when the
robot could not be read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, ext, err := a.registry()
			if err != nil {
				return err
			}
			opcode, blockArgs := args[0], blocks.ParseArgs(args[1:])

			ctx, cancel := context.WithTimeout(cmd.Context(), a.pollTimeout())
			defer cancel()

			var result any
			if async {
				ch, err := reg.InvokeAsync(ctx, ext.Name(), opcode, blockArgs)
				if err != nil {
					return err
				}
				result = <-ch
			} else {
				result, err = reg.Invoke(ctx, ext.Name(), opcode, blockArgs)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if result == nil {
				writeln(out, "done")
				return nil
			}
			data, err := json.Marshal(result)
			if err != nil {
				return err
			}
			writeln(out, string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&async, "async", false, "run through the asynchronous completion channel")
	return cmd
}

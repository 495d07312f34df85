package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-botblocks/pkg/controller"
)

func newPressCommand(a *app) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "press [button] [field=value...]",
		Short: "Press a controller page button",
		Long: `Press a controller page button with the given input fields and print
the output fields. Failures are reported the way the page alerts them.

  botblocks press driveSubmit driveDirection=forward driveSpeed=50 driveDistance=100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			page := a.page(nil, func(msg string) {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(msg))
			})

			if list || len(args) == 0 {
				writeln(out, titleStyle.Render(page.Title()))
				for _, b := range page.Buttons() {
					fmt.Fprintf(out, "  %s  %s\n", opcodeStyle.Render(b.Button), labelStyle.Render(b.Label))
					if len(b.Inputs) > 0 {
						fmt.Fprintf(out, "      inputs: %s\n", strings.Join(b.Inputs, ", "))
					}
				}
				return nil
			}

			form, err := parseFields(args[1:])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.pollTimeout())
			defer cancel()

			result, err := page.Press(ctx, args[0], form)
			if errors.Is(err, controller.ErrUnknownButton) {
				return err
			}
			if err != nil {
				// The alert sink already printed it.
				return errReported
			}

			b, _ := page.Binding(args[0])
			for _, id := range b.Outputs {
				writeln(out, labelStyle.Render(id+":"))
				writeln(out, result[id])
			}
			if v, ok := result["motorsStatusLog"]; ok {
				writeln(out, v)
			}
			if len(b.Outputs) == 0 {
				writeln(out, okStyle.Render("ok"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list the page's buttons")
	return cmd
}

func parseFields(words []string) (controller.Form, error) {
	form := make(controller.Form, len(words))
	for _, w := range words {
		k, v, ok := strings.Cut(w, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("field %q: want name=value", w)
		}
		form[k] = v
	}
	return form, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

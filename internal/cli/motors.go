package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-botblocks/pkg/controller"
	"github.com/teslashibe/go-botblocks/pkg/monitor"
	"github.com/teslashibe/go-botblocks/pkg/protocol"
	"github.com/teslashibe/go-botblocks/pkg/web"
)

func newMotorsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "motors",
		Short: "Follow GoPiGo3 motor status",
	}
	cmd.AddCommand(newMotorsWatchCommand(a))
	cmd.AddCommand(newMotorsTailCommand(a))
	return cmd
}

// linePrinter writes each motor status line and cancels after limit lines
// when limit is positive.
type linePrinter struct {
	w      io.Writer
	limit  int
	cancel context.CancelFunc

	mu      sync.Mutex
	printed int
}

func (p *linePrinter) Publish(msg *protocol.Message) error {
	var data protocol.MotorStatusData
	if err := msg.ParseData(&data); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.limit > 0 && p.printed >= p.limit {
		return nil
	}
	if _, err := fmt.Fprintln(p.w, data.Line); err != nil {
		return err
	}
	p.printed++
	if p.limit > 0 && p.printed >= p.limit {
		p.cancel()
	}
	return nil
}

func newMotorsWatchCommand(a *app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll motor status directly from the robot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireGoPiGo("motors watch"); err != nil {
				return err
			}
			if cmd.Flags().Changed("interval") {
				a.cfg.PollInterval, _ = cmd.Flags().GetDuration("interval")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			out := cmd.OutOrStdout()
			writeln(out, labelStyle.Render(controller.MotorLogHeader))

			printer := &linePrinter{w: out, limit: count, cancel: cancel}
			m := monitor.New(a.gopigo(), nil,
				monitor.WithInterval(a.cfg.PollInterval),
				monitor.WithBroadcaster(printer),
				monitor.WithLogger(a.logger),
			)
			m.Run(ctx)
			return nil
		},
	}
	cmd.Flags().Duration("interval", 0, "poll interval (default from config)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "stop after n lines")
	return cmd
}

func newMotorsTailCommand(a *app) *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow the live motor log of a running botblocks server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := web.MotorsWSURL(server)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return web.TailMotorLog(ctx, wsURL, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:8090", "botblocks server URL")
	return cmd
}

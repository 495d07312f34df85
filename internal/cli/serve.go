package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-botblocks/internal/config"
	"github.com/teslashibe/go-botblocks/pkg/controller"
	"github.com/teslashibe/go-botblocks/pkg/monitor"
	"github.com/teslashibe/go-botblocks/pkg/telemetry"
	"github.com/teslashibe/go-botblocks/pkg/web"
)

func newServeCommand(a *app) *cobra.Command {
	var noMonitor bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the block bridge, controller API and live motor log",
		Long: `Serve the block bridge, the controller page API and, for GoPiGo3 robots,
a live motor status log polled in the background. When an MQTT broker is
configured every reading is also published to <topic>/motors/status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("listen") {
				a.cfg.Listen, _ = flags.GetString("listen")
			}
			if flags.Changed("mqtt-broker") {
				a.cfg.MQTTBroker, _ = flags.GetString("mqtt-broker")
			}
			if flags.Changed("mqtt-topic") {
				a.cfg.MQTTTopic, _ = flags.GetString("mqtt-topic")
			}
			if flags.Changed("poll") {
				a.cfg.PollInterval, _ = flags.GetDuration("poll")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg, _, err := a.registry()
			if err != nil {
				return err
			}
			defer reg.Shutdown()

			ml := controller.NewMotorLog(0)
			srv := web.NewServer(a.cfg.Listen, reg,
				web.WithPage(a.page(ml, nil)),
				web.WithMotorLog(ml),
				web.WithLogger(a.logger),
			)

			if a.cfg.Platform == config.PlatformGoPiGo && !noMonitor {
				opts := []monitor.Option{
					monitor.WithInterval(a.cfg.PollInterval),
					monitor.WithBroadcaster(srv.MotorHub()),
					monitor.WithLogger(a.logger),
				}
				if a.cfg.MQTTBroker != "" {
					pub, err := telemetry.Dial(a.cfg.MQTTBroker, a.cfg.MQTTTopic, telemetry.WithLogger(a.logger))
					if err != nil {
						return err
					}
					defer pub.Close()
					opts = append(opts, monitor.WithPublisher(pub))
				}
				m := monitor.New(a.gopigo(), ml, opts...)
				go m.Run(ctx)
				defer m.Stop()
			}

			a.logger.Info("serving", "listen", a.cfg.Listen, "platform", a.cfg.Platform, "robot", a.cfg.BaseURL())
			return srv.Start(ctx)
		},
	}
	cmd.Flags().String("listen", config.DefaultListen, "address to serve on")
	cmd.Flags().String("mqtt-broker", "", "MQTT broker URL, e.g. tcp://localhost:1883")
	cmd.Flags().String("mqtt-topic", config.DefaultMQTTTopic, "MQTT topic prefix")
	cmd.Flags().Duration("poll", config.DefaultPollInterval, "motor status poll interval")
	cmd.Flags().BoolVar(&noMonitor, "no-monitor", false, "do not poll motor status")
	return cmd
}

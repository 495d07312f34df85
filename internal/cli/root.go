// Package cli implements the botblocks command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-botblocks/internal/config"
	"github.com/teslashibe/go-botblocks/internal/httpc"
	"github.com/teslashibe/go-botblocks/internal/log"
	"github.com/teslashibe/go-botblocks/pkg/blocks"
	"github.com/teslashibe/go-botblocks/pkg/controller"
	"github.com/teslashibe/go-botblocks/pkg/gopigo"
	"github.com/teslashibe/go-botblocks/pkg/robot"
	"github.com/teslashibe/go-botblocks/pkg/rrb3"
	"github.com/teslashibe/go-botblocks/pkg/teleop"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// app carries the loaded configuration into subcommands.
type app struct {
	configPath string
	cfg        config.Config
	logger     *slog.Logger

	// Set in tests to keep logs out of the output.
	quiet bool
}

// NewRootCommand builds the botblocks command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "botblocks",
		Short: "Drive RasPiRobot Board 3 and GoPiGo3 robots from blocks",
		Long: `botblocks talks to the HTTP server running on a RasPiRobot Board 3 or
GoPiGo3 robot. It runs Scratch-style blocks, presses controller page
buttons, serves a block bridge with a live motor log, and drives the robot
from the keyboard.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.String("platform", config.DefaultPlatform, "robot platform (rrb3, gopigo3)")
	pf.String("host", config.DefaultRobotHost, "robot server host")
	pf.String("port", config.DefaultRobotPort, "robot server port")
	pf.Duration("timeout", config.DefaultTimeout, "robot request timeout")
	pf.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newPingCommand(a))
	rootCmd.AddCommand(newBlocksCommand(a))
	rootCmd.AddCommand(newPressCommand(a))
	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newMotorsCommand(a))
	rootCmd.AddCommand(newTeleopCommand(a))
	rootCmd.AddCommand(newInstallCommand(a))

	return rootCmd
}

// load layers explicitly set flags over the file and environment.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	override("platform", &cfg.Platform)
	override("host", &cfg.Host)
	override("port", &cfg.Port)
	override("log-level", &cfg.LogLevel)
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.quiet {
		a.logger = log.Discard()
	} else {
		log.Init(cfg.LogLevel)
		a.logger = log.L()
	}
	return nil
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

func (a *app) api() *robot.Client {
	return robot.NewClient(a.cfg.BaseURL(),
		robot.WithHTTPClient(httpc.NewClient(a.cfg.Timeout)),
		robot.WithLogger(a.logger),
	)
}

func (a *app) gopigo() *gopigo.Client {
	return gopigo.NewClient(a.api())
}

func (a *app) rrb3() *rrb3.Client {
	return rrb3.NewClient(a.api())
}

// extension returns the block adapter for the configured platform.
func (a *app) extension() blocks.Extension {
	if a.cfg.Platform == config.PlatformRRB3 {
		return rrb3.NewExtension(a.rrb3(), a.logger)
	}
	return gopigo.NewExtension(a.gopigo(), a.logger)
}

func (a *app) registry() (*blocks.Registry, blocks.Extension, error) {
	ext := a.extension()
	reg := blocks.NewRegistry()
	if err := reg.Register(ext); err != nil {
		return nil, nil, err
	}
	return reg, ext, nil
}

// page returns the controller page for the configured platform.
func (a *app) page(ml *controller.MotorLog, alert controller.Alert) *controller.Page {
	opts := []controller.Option{controller.WithLogger(a.logger)}
	if alert != nil {
		opts = append(opts, controller.WithAlert(alert))
	}
	if a.cfg.Platform == config.PlatformRRB3 {
		return controller.NewRRB3Page(a.rrb3(), opts...)
	}
	return controller.NewGoPiGoPage(a.gopigo(), ml, opts...)
}

func (a *app) driver() teleop.Driver {
	if a.cfg.Platform == config.PlatformRRB3 {
		return a.rrb3()
	}
	return a.gopigo()
}

func (a *app) requireGoPiGo(what string) error {
	if a.cfg.Platform != config.PlatformGoPiGo {
		return fmt.Errorf("%s needs a %s robot, configured platform is %s", what, config.PlatformGoPiGo, a.cfg.Platform)
	}
	return nil
}

// errReported is returned by commands that already showed the failure.
var errReported = errors.New("failure already reported")

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		}
		os.Exit(1)
	}
}

// pollTimeout is the per-request deadline for one-shot commands.
func (a *app) pollTimeout() time.Duration {
	return a.cfg.Timeout
}

func writeln(w io.Writer, s string) {
	fmt.Fprintln(w, s)
}

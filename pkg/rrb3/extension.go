package rrb3

import (
	"context"
	"log/slog"

	"github.com/teslashibe/go-botblocks/internal/log"
	"github.com/teslashibe/go-botblocks/pkg/blocks"
)

// ExtensionName is the label shown by the block host.
const ExtensionName = "RasPiRobot Board 3"

// Values reported when a read fails.
const (
	SwitchUnknown   = false
	DistanceUnknown = -1.0
)

// Extension adapts the RRB3 server to blocks. Commands always complete
// without a value, even when the request fails; reporters fall back to a
// fixed value. Nothing here returns an error to the host.
type Extension struct {
	client   *Client
	logger   *slog.Logger
	handlers map[string]blocks.Handler
}

var _ blocks.Extension = (*Extension)(nil)

// NewExtension creates the block adapter for an RRB3 client.
func NewExtension(client *Client, logger *slog.Logger) *Extension {
	if logger == nil {
		logger = log.L()
	}
	e := &Extension{
		client: client,
		logger: logger.With("extension", ExtensionName),
	}
	e.handlers = map[string]blocks.Handler{
		"setLed": func(ctx context.Context, a blocks.Args) any {
			e.SetLed(ctx, a.String(0), a.String(1))
			return nil
		},
		"switchState": func(ctx context.Context, a blocks.Args) any {
			return e.SwitchState(ctx, a.String(0))
		},
		"move": func(ctx context.Context, a blocks.Args) any {
			e.Move(ctx, a.String(0), a.Number(1), a.Number(2))
			return nil
		},
		"turn": func(ctx context.Context, a blocks.Args) any {
			e.Turn(ctx, a.String(0), a.Number(1), a.Number(2))
			return nil
		},
		"moveContinously": func(ctx context.Context, a blocks.Args) any {
			e.MoveContinuously(ctx, a.String(0), a.Number(1))
			return nil
		},
		"turnContinously": func(ctx context.Context, a blocks.Args) any {
			e.TurnContinuously(ctx, a.String(0), a.Number(1))
			return nil
		},
		"setMotors": func(ctx context.Context, a blocks.Args) any {
			e.SetMotors(ctx, a.String(0), a.Number(1), a.String(2), a.Number(3))
			return nil
		},
		"stopMotors": func(ctx context.Context, a blocks.Args) any {
			e.StopMotors(ctx)
			return nil
		},
		"getDistance": func(ctx context.Context, a blocks.Args) any {
			return e.GetDistance(ctx)
		},
	}
	return e
}

// Name implements blocks.Extension.
func (e *Extension) Name() string {
	return ExtensionName
}

// Descriptor implements blocks.Extension.
func (e *Extension) Descriptor() blocks.Descriptor {
	return Descriptor()
}

// Status always reports ready. It does not contact the robot.
func (e *Extension) Status() blocks.Status {
	return blocks.Ready()
}

// Shutdown does nothing.
func (e *Extension) Shutdown() {}

// Handler implements blocks.Extension.
func (e *Extension) Handler(opcode string) (blocks.Handler, bool) {
	h, ok := e.handlers[opcode]
	return h, ok
}

// SetLed switches an LED. Failures are ignored.
func (e *Extension) SetLed(ctx context.Context, ledNo, state string) {
	e.ignore(e.client.SetLED(ctx, ledNo, state), "setLed")
}

// SwitchState reports "1" for a closed switch and "0" otherwise, or false
// if the switch could not be read. The host has no asynchronous boolean
// reporter, so this is a value reporter.
func (e *Extension) SwitchState(ctx context.Context, switchNo string) any {
	resp, err := e.client.SwitchState(ctx, switchNo)
	if err != nil {
		e.logger.Debug("switch read failed", "switch", switchNo, "error", err)
		return SwitchUnknown
	}
	if resp.Closed() {
		return "1"
	}
	return "0"
}

// Move drives for duration seconds; 0 means until stopped.
func (e *Extension) Move(ctx context.Context, direction string, speed, duration float64) {
	e.ignore(e.client.Move(ctx, direction, speed, duration), "move")
}

// Turn is Move under another opcode; the host needs one function per block.
func (e *Extension) Turn(ctx context.Context, direction string, speed, duration float64) {
	e.Move(ctx, direction, speed, duration)
}

// MoveContinuously moves until stopped.
func (e *Extension) MoveContinuously(ctx context.Context, direction string, speed float64) {
	e.Move(ctx, direction, speed, 0)
}

// TurnContinuously turns until stopped.
func (e *Extension) TurnContinuously(ctx context.Context, direction string, speed float64) {
	e.Move(ctx, direction, speed, 0)
}

// SetMotors sets both motors. Failures are ignored.
func (e *Extension) SetMotors(ctx context.Context, leftDirection string, leftSpeed float64, rightDirection string, rightSpeed float64) {
	e.ignore(e.client.SetMotors(ctx, leftDirection, leftSpeed, rightDirection, rightSpeed), "setMotors")
}

// StopMotors stops both motors. Failures are ignored.
func (e *Extension) StopMotors(ctx context.Context) {
	e.ignore(e.client.Stop(ctx), "stopMotors")
}

// GetDistance reports the range finder reading, or -1 on failure.
func (e *Extension) GetDistance(ctx context.Context) float64 {
	d, err := e.client.Distance(ctx)
	if err != nil {
		e.logger.Debug("distance read failed", "error", err)
		return DistanceUnknown
	}
	return d
}

// ignore drops a command failure; the block completes either way.
func (e *Extension) ignore(err error, opcode string) {
	if err != nil {
		e.logger.Debug("command failed", "opcode", opcode, "error", err)
	}
}

package gopigo

import (
	"context"
	"log/slog"

	"github.com/teslashibe/go-botblocks/internal/log"
	"github.com/teslashibe/go-botblocks/pkg/blocks"
)

// ExtensionName is the label shown by the block host.
const ExtensionName = "GoPiGo3"

// Unknown is reported by numeric reporters when the read fails.
const Unknown = -1.0

// Extension adapts the GoPiGo3 server to blocks. Commands always complete
// without a value, even when the request fails; reporters fall back to
// Unknown. Nothing here returns an error to the host.
type Extension struct {
	client   *Client
	logger   *slog.Logger
	handlers map[string]blocks.Handler
}

var _ blocks.Extension = (*Extension)(nil)

// NewExtension creates the block adapter for a GoPiGo3 client.
func NewExtension(client *Client, logger *slog.Logger) *Extension {
	if logger == nil {
		logger = log.L()
	}
	e := &Extension{
		client: client,
		logger: logger.With("extension", ExtensionName),
	}
	e.handlers = map[string]blocks.Handler{
		"setBlinkers": func(ctx context.Context, a blocks.Args) any {
			e.SetBlinkers(ctx, a.String(0), a.String(1))
			return nil
		},
		"setEyes": func(ctx context.Context, a blocks.Args) any {
			e.SetEyes(ctx, a.String(0), a.Number(1), a.Number(2), a.Number(3))
			return nil
		},
		"drive": func(ctx context.Context, a blocks.Args) any {
			e.Drive(ctx, a.String(0), a.Number(1), a.Number(2))
			return nil
		},
		"driveContinuously": func(ctx context.Context, a blocks.Args) any {
			e.DriveContinuously(ctx, a.String(0), a.Number(1))
			return nil
		},
		"turn": func(ctx context.Context, a blocks.Args) any {
			e.Turn(ctx, a.String(0), a.Number(1), a.Number(2))
			return nil
		},
		"turnContinuously": func(ctx context.Context, a blocks.Args) any {
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
		"setServo": func(ctx context.Context, a blocks.Args) any {
			e.SetServo(ctx, a.String(0), a.Number(1))
			return nil
		},
		"getDistance": func(ctx context.Context, a blocks.Args) any {
			return e.GetDistance(ctx)
		},
		"getVoltage": func(ctx context.Context, a blocks.Args) any {
			return e.GetVoltage(ctx, a.String(0))
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

// SetBlinkers switches blinkers on or off.
func (e *Extension) SetBlinkers(ctx context.Context, which, state string) {
	e.ignore(e.client.SetBlinkers(ctx, which, state), "setBlinkers")
}

// SetEyes sets eye color from 0..100 channel values.
func (e *Extension) SetEyes(ctx context.Context, which string, red, green, blue float64) {
	err := e.client.SetEyes(ctx, which, PercentToByte(red), PercentToByte(green), PercentToByte(blue))
	e.ignore(err, "setEyes")
}

// Drive drives cm centimetres; 0 drives until stopped.
func (e *Extension) Drive(ctx context.Context, direction string, speed, cm float64) {
	err := e.client.Drive(ctx, direction, speed, untilStopped(CentimetresToMillimetres(cm)))
	e.ignore(err, "drive")
}

// DriveContinuously drives until stopped.
func (e *Extension) DriveContinuously(ctx context.Context, direction string, speed float64) {
	e.Drive(ctx, direction, speed, 0)
}

// Turn turns angle degrees; 0 turns until stopped.
func (e *Extension) Turn(ctx context.Context, direction string, speed, angle float64) {
	e.ignore(e.client.Turn(ctx, direction, speed, untilStopped(angle)), "turn")
}

// TurnContinuously turns until stopped.
func (e *Extension) TurnContinuously(ctx context.Context, direction string, speed float64) {
	e.Turn(ctx, direction, speed, 0)
}

// SetMotors sets both motors.
func (e *Extension) SetMotors(ctx context.Context, leftDirection string, leftSpeed float64, rightDirection string, rightSpeed float64) {
	e.ignore(e.client.SetMotors(ctx, leftDirection, leftSpeed, rightDirection, rightSpeed), "setMotors")
}

// StopMotors stops both motors.
func (e *Extension) StopMotors(ctx context.Context) {
	e.ignore(e.client.Stop(ctx), "stopMotors")
}

// SetServo moves a servo.
func (e *Extension) SetServo(ctx context.Context, servo string, position float64) {
	e.ignore(e.client.SetServo(ctx, servo, position), "setServo")
}

// GetDistance reports the distance in whole centimetres, or Unknown.
func (e *Extension) GetDistance(ctx context.Context) float64 {
	cm, err := e.client.DistanceCM(ctx)
	if err != nil {
		e.logger.Debug("distance read failed", "error", err)
		return Unknown
	}
	return cm
}

// GetVoltage reports the 5v or battery rail in volts, or Unknown.
func (e *Extension) GetVoltage(ctx context.Context, rail string) float64 {
	v, err := e.client.Voltage(ctx, rail)
	if err != nil {
		e.logger.Debug("voltage read failed", "rail", rail, "error", err)
		return Unknown
	}
	return v
}

func (e *Extension) ignore(err error, opcode string) {
	if err != nil {
		e.logger.Debug("command failed", "opcode", opcode, "error", err)
	}
}

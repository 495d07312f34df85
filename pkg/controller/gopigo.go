package controller

import (
	"context"
	"time"

	"github.com/teslashibe/go-botblocks/pkg/gopigo"
)

// GoPiGo3 page button ids.
const (
	ButtonPlatformInformation = "platformInformationSubmit"
	ButtonVoltage5V           = "platformInformationVoltages5VSubmit"
	ButtonVoltageBattery      = "platformInformationVoltagesBatterySubmit"
	ButtonBlinkers            = "blinkersSubmit"
	ButtonEyes                = "eyesSubmit"
	ButtonDrive               = "driveSubmit"
	ButtonTurn                = "turnSubmit"
	ButtonMotors              = "motorsSubmit"
	ButtonStop                = "stopSubmit"
	ButtonServo               = "servoSubmit"
	ButtonSensorsDistance     = "sensorsDistanceSubmit"
	ButtonMotorsStatus        = "motorsStatusSubmit"
)

// FormatPlatformInformation renders the multi-line summary shown in the
// platform information field.
func FormatPlatformInformation(info gopigo.PlatformInformation) string {
	return "Manufacturer: " + info.Manufacturer + "\n" +
		"Board name: " + info.BoardName + "\n" +
		"Hardware version: " + info.HardwareVersion + "\n" +
		"Firmware version: " + info.FirmwareVersion + "\n" +
		"Hardware serial number: " + info.HardwareSerialNumber
}

// NewGoPiGoPage builds the GoPiGo3 controller page. Motor status lines are
// appended to motorLog; pass nil for a private log.
func NewGoPiGoPage(c *gopigo.Client, motorLog *MotorLog, opts ...Option) *Page {
	if motorLog == nil {
		motorLog = NewMotorLog(0)
	}
	p := newPage("GoPiGo3 Controller", opts...)

	p.bind(Binding{
		Button:  ButtonPlatformInformation,
		Label:   "Read platform information",
		Outputs: []string{"platformInformationValue"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			info, err := c.PlatformInformation(ctx)
			if err != nil {
				return nil, err
			}
			return Form{"platformInformationValue": FormatPlatformInformation(info)}, nil
		},
	})

	voltage := func(rail, field string) func(context.Context, Form) (Form, error) {
		return func(ctx context.Context, in Form) (Form, error) {
			v, err := c.Voltage(ctx, rail)
			if err != nil {
				return nil, err
			}
			return Form{field: formatNumber(v)}, nil
		}
	}
	p.bind(Binding{
		Button:  ButtonVoltage5V,
		Label:   "Read 5V rail",
		Outputs: []string{"platformInformationVoltages5VValue"},
		Run:     voltage(gopigo.Rail5V, "platformInformationVoltages5VValue"),
	})
	p.bind(Binding{
		Button:  ButtonVoltageBattery,
		Label:   "Read battery voltage",
		Outputs: []string{"platformInformationVoltagesBatteryValue"},
		Run:     voltage(gopigo.RailBattery, "platformInformationVoltagesBatteryValue"),
	})

	p.bind(Binding{
		Button: ButtonBlinkers,
		Label:  "Set blinkers",
		Inputs: []string{"blinkersId", "blinkersState"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			state, err := required(in, "blinkersState")
			if err != nil {
				return nil, err
			}
			return nil, c.SetBlinkers(ctx, in["blinkersId"], state)
		},
	})

	p.bind(Binding{
		Button: ButtonEyes,
		Label:  "Set eye color (0-255)",
		Inputs: []string{"eyesId", "eyesRed", "eyesGreen", "eyesBlue"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			var rgb [3]float64
			for i, id := range []string{"eyesRed", "eyesGreen", "eyesBlue"} {
				v, err := number(in, id)
				if err != nil {
					return nil, err
				}
				rgb[i] = v
			}
			return nil, c.SetEyes(ctx, in["eyesId"], rgb[0], rgb[1], rgb[2])
		},
	})

	p.bind(Binding{
		Button: ButtonDrive,
		Label:  "Drive (distance in mm, empty = until stopped)",
		Inputs: []string{"driveDirection", "driveSpeed", "driveDistance"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			dir, err := required(in, "driveDirection")
			if err != nil {
				return nil, err
			}
			speed, err := number(in, "driveSpeed")
			if err != nil {
				return nil, err
			}
			dist, err := optionalNumber(in, "driveDistance")
			if err != nil {
				return nil, err
			}
			return nil, c.Drive(ctx, dir, speed, dist)
		},
	})

	p.bind(Binding{
		Button: ButtonTurn,
		Label:  "Turn (angle in degrees, empty = until stopped)",
		Inputs: []string{"turnDirection", "turnSpeed", "turnAngle"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			dir, err := required(in, "turnDirection")
			if err != nil {
				return nil, err
			}
			speed, err := number(in, "turnSpeed")
			if err != nil {
				return nil, err
			}
			angle, err := optionalNumber(in, "turnAngle")
			if err != nil {
				return nil, err
			}
			return nil, c.Turn(ctx, dir, speed, angle)
		},
	})

	p.bind(Binding{
		Button: ButtonMotors,
		Label:  "Set motors",
		Inputs: []string{"motorsLeftDirection", "motorsLeftSpeed", "motorsRightDirection", "motorsRightSpeed"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			return nil, setMotors(in, func(ld string, ls float64, rd string, rs float64) error {
				return c.SetMotors(ctx, ld, ls, rd, rs)
			})
		},
	})

	p.bind(Binding{
		Button: ButtonStop,
		Label:  "Stop motors",
		Run: func(ctx context.Context, in Form) (Form, error) {
			return nil, c.Stop(ctx)
		},
	})

	p.bind(Binding{
		Button: ButtonServo,
		Label:  "Set servo position (0-180)",
		Inputs: []string{"servoId", "servoPosition"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			servo, err := required(in, "servoId")
			if err != nil {
				return nil, err
			}
			pos, err := number(in, "servoPosition")
			if err != nil {
				return nil, err
			}
			return nil, c.SetServo(ctx, servo, pos)
		},
	})

	p.bind(Binding{
		Button:  ButtonSensorsDistance,
		Label:   "Read distance sensor (mm)",
		Outputs: []string{"sensorsDistanceValue"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			mm, err := c.Distance(ctx)
			if err != nil {
				return nil, err
			}
			return Form{"sensorsDistanceValue": formatNumber(mm)}, nil
		},
	})

	p.bind(Binding{
		Button: ButtonMotorsStatus,
		Label:  "Append motor status to log",
		Run: func(ctx context.Context, in Form) (Form, error) {
			st, err := c.MotorsStatus(ctx)
			if err != nil {
				return nil, err
			}
			motorLog.Append(FormatMotorStatus(time.Now(), st))
			return Form{"motorsStatusLog": motorLog.Text()}, nil
		},
	})

	return p
}

// setMotors parses the four motor fields shared by both pages.
func setMotors(in Form, send func(string, float64, string, float64) error) error {
	ld, err := required(in, "motorsLeftDirection")
	if err != nil {
		return err
	}
	ls, err := number(in, "motorsLeftSpeed")
	if err != nil {
		return err
	}
	rd, err := required(in, "motorsRightDirection")
	if err != nil {
		return err
	}
	rs, err := number(in, "motorsRightSpeed")
	if err != nil {
		return err
	}
	return send(ld, ls, rd, rs)
}

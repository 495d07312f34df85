package controller

import (
	"context"

	"github.com/teslashibe/go-botblocks/pkg/rrb3"
)

// RRB3 page button ids. The motors and stop buttons share ids with the
// GoPiGo3 page.
const (
	ButtonLED      = "ledSubmit"
	ButtonSwitch   = "switchSubmit"
	ButtonMove     = "moveSubmit"
	ButtonDistance = "distanceSubmit"
)

// NewRRB3Page builds the RasPiRobot Board 3 controller page.
func NewRRB3Page(c *rrb3.Client, opts ...Option) *Page {
	p := newPage("RasPiRobot Board 3 Controller", opts...)

	p.bind(Binding{
		Button: ButtonLED,
		Label:  "Set LED",
		Inputs: []string{"ledNo", "ledState"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			led, err := required(in, "ledNo")
			if err != nil {
				return nil, err
			}
			state, err := required(in, "ledState")
			if err != nil {
				return nil, err
			}
			return nil, c.SetLED(ctx, led, state)
		},
	})

	p.bind(Binding{
		Button:  ButtonSwitch,
		Label:   "Read switch",
		Inputs:  []string{"switchNo"},
		Outputs: []string{"switchState"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			no, err := required(in, "switchNo")
			if err != nil {
				return nil, err
			}
			resp, err := c.SwitchState(ctx, no)
			if err != nil {
				return nil, err
			}
			return Form{"switchState": resp.State}, nil
		},
	})

	p.bind(Binding{
		Button: ButtonMove,
		Label:  "Move (duration 0 = until stopped)",
		Inputs: []string{"moveDirection", "moveSpeed", "moveDuration"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			dir, err := required(in, "moveDirection")
			if err != nil {
				return nil, err
			}
			speed, err := number(in, "moveSpeed")
			if err != nil {
				return nil, err
			}
			duration, err := number(in, "moveDuration")
			if err != nil {
				return nil, err
			}
			return nil, c.Move(ctx, dir, speed, duration)
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
		Button:  ButtonDistance,
		Label:   "Read distance",
		Outputs: []string{"distanceValue"},
		Run: func(ctx context.Context, in Form) (Form, error) {
			d, err := c.Distance(ctx)
			if err != nil {
				return nil, err
			}
			return Form{"distanceValue": formatNumber(d)}, nil
		},
	})

	return p
}

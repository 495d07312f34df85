package gopigo

import "github.com/teslashibe/go-botblocks/pkg/blocks"

// ProjectURL is the extension's documentation link.
const ProjectURL = "https://github.com/markokimpel/gopigoscratchextension"

// Descriptor returns the GoPiGo3 block table.
func Descriptor() blocks.Descriptor {
	return blocks.Descriptor{
		Blocks: []blocks.Block{
			{Type: blocks.AsyncCommand, Template: "set %m.eyesBlinkers blinkers %m.onOff", Opcode: "setBlinkers", Defaults: []any{Both, On}},
			{Type: blocks.AsyncCommand, Template: "set %m.eyesBlinkers eyes red %n % green %n % blue %n %", Opcode: "setEyes", Defaults: []any{Both, 100, 0, 0}},

			{Type: blocks.AsyncCommand, Template: "drive %m.forwardBackward speed %n % for %n cm", Opcode: "drive", Defaults: []any{Forward, 50, 10}},
			{Type: blocks.AsyncCommand, Template: "drive %m.forwardBackward speed %n %", Opcode: "driveContinuously", Defaults: []any{Forward, 50}},
			{Type: blocks.AsyncCommand, Template: "turn %m.rightLeft speed %n % for %n degrees", Opcode: "turn", Defaults: []any{Right, 50, 90}},
			{Type: blocks.AsyncCommand, Template: "turn %m.rightLeft speed %n %", Opcode: "turnContinuously", Defaults: []any{Right, 50}},
			{Type: blocks.AsyncCommand, Template: "set motors left %m.forwardBackward speed %n % right %m.forwardBackward speed %n %", Opcode: "setMotors", Defaults: []any{Forward, 50, Forward, 50}},
			{Type: blocks.AsyncCommand, Template: "stop motors", Opcode: "stopMotors"},

			{Type: blocks.AsyncCommand, Template: "set servo %m.servo position %n degrees", Opcode: "setServo", Defaults: []any{Servo1, 90}},

			{Type: blocks.AsyncReporter, Template: "distance (cm)", Opcode: "getDistance"},
			{Type: blocks.AsyncReporter, Template: "%m.rail voltage", Opcode: "getVoltage", Defaults: []any{RailBattery}},
		},
		Menus: map[string][]string{
			"eyesBlinkers":    {Both, Left, Right},
			"onOff":           {On, Off},
			"forwardBackward": {Forward, Backward},
			"rightLeft":       {Right, Left},
			"servo":           {Servo1, Servo2},
			"rail":            {RailBattery, Rail5V},
		},
		URL: ProjectURL,
	}
}

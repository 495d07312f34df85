package rrb3

import "github.com/teslashibe/go-botblocks/pkg/blocks"

// ProjectURL is the extension's documentation link.
const ProjectURL = "https://github.com/markokimpel/rrbscratchextension"

// Descriptor returns the RRB3 block table.
func Descriptor() blocks.Descriptor {
	return blocks.Descriptor{
		Blocks: []blocks.Block{
			{Type: blocks.AsyncCommand, Template: "set led %m.ledNo %m.onOff", Opcode: "setLed", Defaults: []any{"1", "on"}},

			{Type: blocks.AsyncReporter, Template: "switch %m.switchNo state", Opcode: "switchState", Defaults: []any{1}},

			{Type: blocks.AsyncCommand, Template: "move %m.forwardReverse speed %n % for %n secs", Opcode: "move", Defaults: []any{"forward", 50, 1}},
			{Type: blocks.AsyncCommand, Template: "turn %m.rightLeft speed %n % for %n secs", Opcode: "turn", Defaults: []any{"right", 50, 1}},

			{Type: blocks.AsyncCommand, Template: "move %m.forwardReverse speed %n %", Opcode: "moveContinously", Defaults: []any{"forward", 50}},
			{Type: blocks.AsyncCommand, Template: "turn %m.rightLeft speed %n %", Opcode: "turnContinously", Defaults: []any{"right", 50}},
			{Type: blocks.AsyncCommand, Template: "set motors left %m.forwardReverse speed %n % right %m.forwardReverse speed %n %", Opcode: "setMotors", Defaults: []any{"forward", 50, "forward", 50}},
			{Type: blocks.AsyncCommand, Template: "stop motors", Opcode: "stopMotors"},

			{Type: blocks.AsyncReporter, Template: "distance", Opcode: "getDistance"},
		},
		Menus: map[string][]string{
			"ledNo":          {"1", "2"},
			"onOff":          {On, Off},
			"switchNo":       {"1", "2"},
			"forwardReverse": {Forward, Reverse},
			"rightLeft":      {Right, Left},
		},
		URL: ProjectURL,
	}
}

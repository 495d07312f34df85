// Package rrb3 talks to the RasPiRobot Board 3 robot server and adapts it to
// blocks.
package rrb3

import "github.com/teslashibe/go-botblocks/pkg/robot"

// API paths.
const (
	PathLED      = "/v1/led/"
	PathSwitch   = "/v1/switch/"
	PathMove     = "/v1/move"
	PathMotors   = "/v1/motors"
	PathStop     = "/v1/stop"
	PathDistance = "/v1/distance"
)

// Directions and states accepted by the server.
const (
	Forward = "forward"
	Reverse = "reverse"
	Right   = "right"
	Left    = "left"

	On  = "on"
	Off = "off"

	SwitchClosed = "closed"
	SwitchOpen   = "open"
)

// LEDBody is the body of a set-LED request.
type LEDBody struct {
	State string `json:"state"`
}

// MoveBody is the body of a move request. A zero duration means forever.
type MoveBody struct {
	Direction string  `json:"direction"`
	Speed     float64 `json:"speed"`
	Duration  float64 `json:"duration"`
}

// MotorsBody sets each motor independently.
type MotorsBody struct {
	LeftDirection  string  `json:"left_direction"`
	LeftSpeed      float64 `json:"left_speed"`
	RightDirection string  `json:"right_direction"`
	RightSpeed     float64 `json:"right_speed"`
}

// SetLEDRequest switches LED ledNo on or off.
func SetLEDRequest(ledNo, state string) robot.Request {
	return robot.Post("set_led", PathLED+robot.PathEscape(ledNo), LEDBody{State: state})
}

// SwitchStateRequest reads switch switchNo.
func SwitchStateRequest(switchNo string) robot.Request {
	return robot.Get("switch_state", PathSwitch+robot.PathEscape(switchNo))
}

// MoveRequest drives or turns for duration seconds.
func MoveRequest(direction string, speed, duration float64) robot.Request {
	return robot.Post("move", PathMove, MoveBody{
		Direction: direction,
		Speed:     speed,
		Duration:  duration,
	})
}

// SetMotorsRequest sets both motors.
func SetMotorsRequest(leftDirection string, leftSpeed float64, rightDirection string, rightSpeed float64) robot.Request {
	return robot.Post("set_motors", PathMotors, MotorsBody{
		LeftDirection:  leftDirection,
		LeftSpeed:      leftSpeed,
		RightDirection: rightDirection,
		RightSpeed:     rightSpeed,
	})
}

// StopRequest stops both motors.
func StopRequest() robot.Request {
	return robot.Post("stop", PathStop, nil)
}

// DistanceRequest reads the ultrasonic range finder.
func DistanceRequest() robot.Request {
	return robot.Get("distance", PathDistance)
}

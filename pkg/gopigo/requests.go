// Package gopigo talks to the GoPiGo3 robot server and adapts it to blocks.
package gopigo

import "github.com/teslashibe/go-botblocks/pkg/robot"

// API paths.
const (
	PathBlinkers            = "/v1/blinkers"
	PathEyes                = "/v1/eyes"
	PathDrive               = "/v1/motors/drive"
	PathTurn                = "/v1/motors/turn"
	PathMotorsSet           = "/v1/motors/set"
	PathMotorsStop          = "/v1/motors/stop"
	PathMotorsStatus        = "/v1/motors/status"
	PathServos              = "/v1/servos/"
	PathDistance            = "/v1/sensors/I2C/distance/distance"
	PathPlatformInformation = "/v1/platform/information"
	PathVoltages            = "/v1/platform/voltages/"
)

// Selectors, directions and states accepted by the server.
const (
	Both  = "both"
	Left  = "left"
	Right = "right"

	Forward  = "forward"
	Backward = "backward"

	On  = "on"
	Off = "off"

	Servo1 = "SERVO1"
	Servo2 = "SERVO2"

	Rail5V      = "5v"
	RailBattery = "battery"
)

// StateBody is the body of a blinkers request.
type StateBody struct {
	State string `json:"state"`
}

// ColorBody is an eye color with channels in 0..255.
type ColorBody struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// DriveBody drives straight. A nil Distance (mm) drives until stopped.
type DriveBody struct {
	Direction string   `json:"direction"`
	Speed     float64  `json:"speed"`
	Distance  *float64 `json:"distance,omitempty"`
}

// TurnBody turns on the spot. A nil Angle (degrees) turns until stopped.
type TurnBody struct {
	Direction string   `json:"direction"`
	Speed     float64  `json:"speed"`
	Angle     *float64 `json:"angle,omitempty"`
}

// MotorsBody sets each motor independently.
type MotorsBody struct {
	LeftDirection  string  `json:"left_direction"`
	LeftSpeed      float64 `json:"left_speed"`
	RightDirection string  `json:"right_direction"`
	RightSpeed     float64 `json:"right_speed"`
}

// PositionBody is a servo position in degrees (0..180).
type PositionBody struct {
	Position float64 `json:"position"`
}

// selectPath appends "/left" or "/right"; "both" and "" address both sides.
func selectPath(base, which string) string {
	if which == "" || which == Both {
		return base
	}
	return base + "/" + robot.PathEscape(which)
}

// BlinkersRequest switches one or both blinkers.
func BlinkersRequest(which, state string) robot.Request {
	return robot.Put("blinkers", selectPath(PathBlinkers, which), StateBody{State: state})
}

// EyesRequest sets one or both eyes. Channels are 0..255.
func EyesRequest(which string, red, green, blue float64) robot.Request {
	return robot.Put("eyes", selectPath(PathEyes, which), ColorBody{Red: red, Green: green, Blue: blue})
}

// DriveRequest drives distanceMM millimetres, or forever when nil.
func DriveRequest(direction string, speed float64, distanceMM *float64) robot.Request {
	return robot.Post("drive", PathDrive, DriveBody{Direction: direction, Speed: speed, Distance: distanceMM})
}

// TurnRequest turns angle degrees, or forever when nil.
func TurnRequest(direction string, speed float64, angle *float64) robot.Request {
	return robot.Post("turn", PathTurn, TurnBody{Direction: direction, Speed: speed, Angle: angle})
}

// SetMotorsRequest sets both motors.
func SetMotorsRequest(leftDirection string, leftSpeed float64, rightDirection string, rightSpeed float64) robot.Request {
	return robot.Post("set_motors", PathMotorsSet, MotorsBody{
		LeftDirection:  leftDirection,
		LeftSpeed:      leftSpeed,
		RightDirection: rightDirection,
		RightSpeed:     rightSpeed,
	})
}

// StopRequest stops both motors.
func StopRequest() robot.Request {
	return robot.Post("stop", PathMotorsStop, nil)
}

// ServoRequest moves SERVO1 or SERVO2 to position degrees.
func ServoRequest(servo string, position float64) robot.Request {
	return robot.Put("servo", PathServos+robot.PathEscape(servo)+"/position", PositionBody{Position: position})
}

// DistanceRequest reads the I2C distance sensor (mm).
func DistanceRequest() robot.Request {
	return robot.Get("distance", PathDistance)
}

// PlatformInformationRequest reads board identification.
func PlatformInformationRequest() robot.Request {
	return robot.Get("platform_information", PathPlatformInformation)
}

// VoltageRequest reads the 5v or battery rail.
func VoltageRequest(rail string) robot.Request {
	return robot.Get("voltage", PathVoltages+robot.PathEscape(rail))
}

// MotorsStatusRequest reads both motor controllers.
func MotorsStatusRequest() robot.Request {
	return robot.Get("motors_status", PathMotorsStatus)
}

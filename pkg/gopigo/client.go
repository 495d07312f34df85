package gopigo

import (
	"context"

	"github.com/teslashibe/go-botblocks/pkg/robot"
)

// Client calls the GoPiGo3 server and reports every failure.
type Client struct {
	api *robot.Client
}

// NewClient wraps a transport client pointed at a GoPiGo3 server.
func NewClient(api *robot.Client) *Client {
	return &Client{api: api}
}

// API returns the underlying transport client.
func (c *Client) API() *robot.Client {
	return c.api
}

// SetBlinkers switches "left", "right" or "both" blinkers on or off.
func (c *Client) SetBlinkers(ctx context.Context, which, state string) error {
	return c.api.Do(ctx, BlinkersRequest(which, state), nil)
}

// SetEyes sets eye color; channels are 0..255.
func (c *Client) SetEyes(ctx context.Context, which string, red, green, blue float64) error {
	return c.api.Do(ctx, EyesRequest(which, red, green, blue), nil)
}

// Drive drives distanceMM millimetres, or until stopped when nil.
func (c *Client) Drive(ctx context.Context, direction string, speed float64, distanceMM *float64) error {
	return c.api.Do(ctx, DriveRequest(direction, speed, distanceMM), nil)
}

// Turn turns angle degrees, or until stopped when nil.
func (c *Client) Turn(ctx context.Context, direction string, speed float64, angle *float64) error {
	return c.api.Do(ctx, TurnRequest(direction, speed, angle), nil)
}

// SetMotors sets each motor independently.
func (c *Client) SetMotors(ctx context.Context, leftDirection string, leftSpeed float64, rightDirection string, rightSpeed float64) error {
	return c.api.Do(ctx, SetMotorsRequest(leftDirection, leftSpeed, rightDirection, rightSpeed), nil)
}

// Stop stops both motors.
func (c *Client) Stop(ctx context.Context) error {
	return c.api.Do(ctx, StopRequest(), nil)
}

// SetServo moves a servo to position degrees.
func (c *Client) SetServo(ctx context.Context, servo string, position float64) error {
	return c.api.Do(ctx, ServoRequest(servo, position), nil)
}

// Distance returns the distance sensor reading in millimetres.
func (c *Client) Distance(ctx context.Context) (float64, error) {
	var resp DistanceResponse
	if err := c.api.Do(ctx, DistanceRequest(), &resp); err != nil {
		return 0, err
	}
	return *resp.Distance, nil
}

// PlatformInformation reads board identification.
func (c *Client) PlatformInformation(ctx context.Context) (PlatformInformation, error) {
	var resp PlatformInformation
	err := c.api.Do(ctx, PlatformInformationRequest(), &resp)
	return resp, err
}

// Voltage reads the 5v or battery rail in volts.
func (c *Client) Voltage(ctx context.Context, rail string) (float64, error) {
	var resp VoltageResponse
	if err := c.api.Do(ctx, VoltageRequest(rail), &resp); err != nil {
		return 0, err
	}
	return *resp.Voltage, nil
}

// MotorsStatus reads both motor controllers.
func (c *Client) MotorsStatus(ctx context.Context) (MotorsStatus, error) {
	var resp MotorsStatus
	err := c.api.Do(ctx, MotorsStatusRequest(), &resp)
	return resp, err
}

// Ping checks which server is listening.
func (c *Client) Ping(ctx context.Context) (robot.PingResponse, error) {
	return c.api.Ping(ctx)
}

// Forward drives forward until stopped.
func (c *Client) Forward(ctx context.Context, speed float64) error {
	return c.Drive(ctx, Forward, speed, nil)
}

// Backward drives backward until stopped.
func (c *Client) Backward(ctx context.Context, speed float64) error {
	return c.Drive(ctx, Backward, speed, nil)
}

// Left turns left until stopped.
func (c *Client) Left(ctx context.Context, speed float64) error {
	return c.Turn(ctx, Left, speed, nil)
}

// Right turns right until stopped.
func (c *Client) Right(ctx context.Context, speed float64) error {
	return c.Turn(ctx, Right, speed, nil)
}

// DistanceCM returns the distance sensor reading in centimetres, rounded.
func (c *Client) DistanceCM(ctx context.Context) (float64, error) {
	mm, err := c.Distance(ctx)
	if err != nil {
		return 0, err
	}
	return MillimetresToCentimetres(mm), nil
}

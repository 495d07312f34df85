package rrb3

import (
	"context"
	"errors"

	"github.com/teslashibe/go-botblocks/pkg/robot"
)

// SwitchResponse is returned by GET /v1/switch/{n}.
type SwitchResponse struct {
	State string `json:"state"`
}

// Validate implements robot.Validator.
func (r *SwitchResponse) Validate() error {
	if r.State == "" {
		return errors.New("missing state")
	}
	return nil
}

// Closed reports whether the switch is closed.
func (r SwitchResponse) Closed() bool {
	return r.State == SwitchClosed
}

// DistanceResponse is returned by GET /v1/distance.
type DistanceResponse struct {
	Distance *float64 `json:"distance"`
}

// Validate implements robot.Validator.
func (r *DistanceResponse) Validate() error {
	if r.Distance == nil {
		return errors.New("missing distance")
	}
	return nil
}

// Client calls the RRB3 server and reports every failure.
type Client struct {
	api *robot.Client
}

// NewClient wraps a transport client pointed at an RRB3 server.
func NewClient(api *robot.Client) *Client {
	return &Client{api: api}
}

// API returns the underlying transport client.
func (c *Client) API() *robot.Client {
	return c.api
}

// SetLED switches an LED on or off.
func (c *Client) SetLED(ctx context.Context, ledNo, state string) error {
	return c.api.Do(ctx, SetLEDRequest(ledNo, state), nil)
}

// SwitchState reads a switch.
func (c *Client) SwitchState(ctx context.Context, switchNo string) (SwitchResponse, error) {
	var resp SwitchResponse
	err := c.api.Do(ctx, SwitchStateRequest(switchNo), &resp)
	return resp, err
}

// Move drives or turns; duration 0 keeps going until stopped.
func (c *Client) Move(ctx context.Context, direction string, speed, duration float64) error {
	return c.api.Do(ctx, MoveRequest(direction, speed, duration), nil)
}

// SetMotors sets each motor independently.
func (c *Client) SetMotors(ctx context.Context, leftDirection string, leftSpeed float64, rightDirection string, rightSpeed float64) error {
	return c.api.Do(ctx, SetMotorsRequest(leftDirection, leftSpeed, rightDirection, rightSpeed), nil)
}

// Stop stops both motors.
func (c *Client) Stop(ctx context.Context) error {
	return c.api.Do(ctx, StopRequest(), nil)
}

// Distance returns the range finder reading as sent by the server.
func (c *Client) Distance(ctx context.Context) (float64, error) {
	var resp DistanceResponse
	if err := c.api.Do(ctx, DistanceRequest(), &resp); err != nil {
		return 0, err
	}
	return *resp.Distance, nil
}

// Ping checks which server is listening.
func (c *Client) Ping(ctx context.Context) (robot.PingResponse, error) {
	return c.api.Ping(ctx)
}

// Teleoperation helpers: continuous motion at the given speed.

// Forward drives forward until stopped.
func (c *Client) Forward(ctx context.Context, speed float64) error {
	return c.Move(ctx, Forward, speed, 0)
}

// Backward reverses until stopped.
func (c *Client) Backward(ctx context.Context, speed float64) error {
	return c.Move(ctx, Reverse, speed, 0)
}

// Left turns left until stopped.
func (c *Client) Left(ctx context.Context, speed float64) error {
	return c.Move(ctx, Left, speed, 0)
}

// Right turns right until stopped.
func (c *Client) Right(ctx context.Context, speed float64) error {
	return c.Move(ctx, Right, speed, 0)
}

// DistanceCM returns the range finder reading. The RRB3 server reports
// centimetres already.
func (c *Client) DistanceCM(ctx context.Context) (float64, error) {
	return c.Distance(ctx)
}

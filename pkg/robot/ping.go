package robot

import (
	"context"
	"errors"
)

// Ping paths served by both robot servers.
const (
	PathPing   = "/ping"
	PathPingV1 = "/v1/ping"
)

// PingResponse is returned by GET /ping and GET /v1/ping.
// V1 is only set by the unversioned endpoint.
type PingResponse struct {
	Server string `json:"server"`
	V1     string `json:"v1,omitempty"`
}

// Validate implements Validator.
func (p *PingResponse) Validate() error {
	if p.Server == "" {
		return errors.New("missing server")
	}
	return nil
}

// SupportsV1 reports whether the server advertised the v1 API.
func (p PingResponse) SupportsV1() bool {
	return p.V1 == "supported"
}

// Ping asks the server which robot it controls and which API versions it
// speaks.
func (c *Client) Ping(ctx context.Context) (PingResponse, error) {
	var resp PingResponse
	err := c.Do(ctx, Get("ping", PathPing), &resp)
	return resp, err
}

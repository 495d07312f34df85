package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-botblocks/pkg/blocks"
	"github.com/teslashibe/go-botblocks/pkg/controller"
	"github.com/teslashibe/go-botblocks/pkg/hub"
	"github.com/teslashibe/go-botblocks/pkg/protocol"
)

// InvokeRequest is the request body for running a block
type InvokeRequest struct {
	Args []any `json:"args"`
}

// InvokeResponse carries the block's value; null for commands
type InvokeResponse struct {
	ID     string `json:"id"`
	Result any    `json:"result"`
}

// PressRequest is the request body for pressing a controller button
type PressRequest struct {
	Fields controller.Form `json:"fields"`
}

// PressResponse carries the form after the press. Alert is set on failure.
type PressResponse struct {
	Fields controller.Form `json:"fields"`
	Alert  string          `json:"alert,omitempty"`
}

// ButtonInfo describes a controller button
type ButtonInfo struct {
	Button  string   `json:"button"`
	Label   string   `json:"label"`
	Inputs  []string `json:"inputs,omitempty"`
	Outputs []string `json:"outputs,omitempty"`
}

// decodeBody decodes a JSON body whatever the Content-Type says. An empty
// body leaves v untouched.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	return c.App().Config().JSONDecoder(body, v)
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// handleListExtensions returns the registered extension names
func (s *Server) handleListExtensions(c *fiber.Ctx) error {
	return c.JSON(s.registry.Names())
}

// handleDescriptor returns an extension's blocks and menus
func (s *Server) handleDescriptor(c *fiber.Ctx) error {
	ext, ok := s.registry.Lookup(c.Params("name"))
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "unknown extension")
	}
	return c.JSON(ext.Descriptor())
}

// handleStatus returns an extension's status without touching the robot
func (s *Server) handleStatus(c *fiber.Ctx) error {
	ext, ok := s.registry.Lookup(c.Params("name"))
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "unknown extension")
	}
	return c.JSON(ext.Status())
}

// handleInvoke runs one block. Block failures are never reported here:
// commands come back with a null result and reporters with their
// fallback value.
func (s *Server) handleInvoke(c *fiber.Ctx) error {
	name, opcode := c.Params("name"), c.Params("opcode")

	var req InvokeRequest
	if err := decodeBody(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := s.registry.Invoke(c.UserContext(), name, opcode, blocks.Args(req.Args))
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	}

	id := s.newID()
	s.logger.Debug("block invoked", "id", id, "extension", name, "opcode", opcode)
	if msg, err := protocol.NewInvocationMessage(protocol.InvocationData{
		ID:        id,
		Extension: name,
		Opcode:    opcode,
		Args:      req.Args,
		Result:    result,
	}); err == nil {
		s.eventHub.Publish(msg)
	}

	return c.JSON(InvokeResponse{ID: id, Result: result})
}

// handleListButtons describes the controller page
func (s *Server) handleListButtons(c *fiber.Ctx) error {
	if s.page == nil {
		return errorJSON(c, fiber.StatusNotFound, "no controller page")
	}
	buttons := s.page.Buttons()
	out := make([]ButtonInfo, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, ButtonInfo{Button: b.Button, Label: b.Label, Inputs: b.Inputs, Outputs: b.Outputs})
	}
	return c.JSON(fiber.Map{"title": s.page.Title(), "buttons": out})
}

// handlePress presses a controller button. Failures come back as 502 with
// the alert text the page would show.
func (s *Server) handlePress(c *fiber.Ctx) error {
	if s.page == nil {
		return errorJSON(c, fiber.StatusNotFound, "no controller page")
	}

	var req PressRequest
	if err := decodeBody(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	fields, err := s.page.Press(c.UserContext(), c.Params("button"), req.Fields)
	if errors.Is(err, controller.ErrUnknownButton) {
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(PressResponse{
			Fields: fields,
			Alert:  controller.AlertText(err),
		})
	}
	return c.JSON(PressResponse{Fields: fields})
}

// handleMotorLog returns recent motor status lines
func (s *Server) handleMotorLog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"header": controller.MotorLogHeader,
		"lines":  s.motorLog.Lines(),
	})
}

// handleMotorsWS replays the motor log, then streams new readings. The
// client registers before the log is read, and broadcasts already covered
// by the replay are skipped by sequence number.
func (s *Server) handleMotorsWS(c *websocket.Conn) {
	var replayed uint64
	backlog := func() [][]byte {
		lines, last := s.motorLog.Snapshot()
		replayed = last
		first := last - uint64(len(lines)) + 1
		out := make([][]byte, 0, len(lines))
		for i, line := range lines {
			data, err := motorLineBytes(first+uint64(i), line)
			if err != nil {
				continue
			}
			out = append(out, data)
		}
		return out
	}
	skip := func(data []byte) bool {
		msg, err := protocol.ParseMessage(data)
		if err != nil || msg.Type != protocol.TypeMotorStatus {
			return false
		}
		var st protocol.MotorStatusData
		if err := msg.ParseData(&st); err != nil {
			return false
		}
		return st.Seq != 0 && st.Seq <= replayed
	}
	hubClient(s.motorHub, c, hub.WithBacklog(backlog), hub.WithSkip(skip))
}

func motorLineBytes(seq uint64, line string) ([]byte, error) {
	msg, err := protocol.NewMessage(protocol.TypeMotorStatus, protocol.MotorStatusData{Seq: seq, Line: line})
	if err != nil {
		return nil, err
	}
	return msg.Bytes()
}

// handleEventsWS streams block invocations
func (s *Server) handleEventsWS(c *websocket.Conn) {
	hubClient(s.eventHub, c)
}

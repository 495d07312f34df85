// Package protocol defines the websocket messages pushed to browsers and
// terminal clients watching a robot.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-botblocks/pkg/gopigo"
)

// MessageType identifies the type of websocket message
type MessageType string

const (
	TypeMotorStatus MessageType = "motor_status" // One motor status poll
	TypeLog         MessageType = "log"          // Server log line
	TypeInvocation  MessageType = "invocation"   // A block was run through the bridge
)

// Message is the base wrapper for all websocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data any) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v any) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// MotorStatusData is one motor status poll and its log line. Seq is the
// line's number in the motor log; 0 means unnumbered.
type MotorStatusData struct {
	Seq    uint64              `json:"seq,omitempty"`
	Line   string              `json:"line"`
	Status gopigo.MotorsStatus `json:"status"`
}

// LogData is a log line
type LogData struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// InvocationData describes one block run
type InvocationData struct {
	ID        string `json:"id"`
	Extension string `json:"extension"`
	Opcode    string `json:"opcode"`
	Args      []any  `json:"args"`
	Result    any    `json:"result,omitempty"`
}

// NewMotorStatusMessage creates a motor status message
func NewMotorStatusMessage(seq uint64, line string, status gopigo.MotorsStatus) (*Message, error) {
	return NewMessage(TypeMotorStatus, MotorStatusData{Seq: seq, Line: line, Status: status})
}

// NewLogMessage creates a log message
func NewLogMessage(level, message string) (*Message, error) {
	return NewMessage(TypeLog, LogData{Level: level, Message: message})
}

// NewInvocationMessage creates an invocation message
func NewInvocationMessage(inv InvocationData) (*Message, error) {
	return NewMessage(TypeInvocation, inv)
}

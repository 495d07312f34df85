// Package blocks defines the contract between a block-based programming host
// and the robot extensions that plug into it.
//
// An Extension declares its blocks and menus in a Descriptor and provides one
// Handler per block opcode. Hosts register extensions with a Registry and
// invoke blocks by opcode with positional arguments.
package blocks

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// BlockType tells the host how to draw and run a block.
type BlockType string

const (
	// Command runs and completes immediately.
	Command BlockType = " "
	// AsyncCommand runs until its handler returns.
	AsyncCommand BlockType = "w"
	// Reporter returns a value immediately.
	Reporter BlockType = "r"
	// AsyncReporter returns a value when its handler returns.
	AsyncReporter BlockType = "R"
	// Boolean reports true or false.
	Boolean BlockType = "b"
	// Hat starts a script when it reports true.
	Hat BlockType = "h"
)

// Reports returns true for block types that produce a value.
func (t BlockType) Reports() bool {
	switch t {
	case Reporter, AsyncReporter, Boolean, Hat:
		return true
	}
	return false
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	switch t {
	case Command, AsyncCommand, Reporter, AsyncReporter, Boolean, Hat:
		return true
	}
	return false
}

// Block declares one block: its type, its label template with placeholders
// (%n number, %s string, %b boolean, %m.menu menu choice, %d.menu editable
// menu) and the opcode of the handler that runs it.
type Block struct {
	Type     BlockType
	Template string
	Opcode   string
	Defaults []any
}

// MarshalJSON encodes the block in the host's array form:
// [type, template, opcode, defaults...].
func (b Block) MarshalJSON() ([]byte, error) {
	arr := make([]any, 0, 3+len(b.Defaults))
	arr = append(arr, string(b.Type), b.Template, b.Opcode)
	arr = append(arr, b.Defaults...)
	return json.Marshal(arr)
}

// UnmarshalJSON decodes the host's array form.
func (b *Block) UnmarshalJSON(data []byte) error {
	var arr []any
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) < 3 {
		return fmt.Errorf("block needs at least 3 elements, got %d", len(arr))
	}
	typ, ok1 := arr[0].(string)
	tmpl, ok2 := arr[1].(string)
	op, ok3 := arr[2].(string)
	if !ok1 || !ok2 || !ok3 {
		return fmt.Errorf("block type, template and opcode must be strings")
	}
	b.Type = BlockType(typ)
	b.Template = tmpl
	b.Opcode = op
	b.Defaults = arr[3:]
	return nil
}

var (
	placeholderRE = regexp.MustCompile(`%[nsb]|%[md]\.[A-Za-z0-9_]+`)
	menuRefRE     = regexp.MustCompile(`%[md]\.([A-Za-z0-9_]+)`)
)

// Placeholders returns the argument placeholders of a template in order.
func Placeholders(template string) []string {
	return placeholderRE.FindAllString(template, -1)
}

// MenuRefs returns the menu names referenced by a template in order.
func MenuRefs(template string) []string {
	matches := menuRefRE.FindAllStringSubmatch(template, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}

// Descriptor is the declarative part of an extension.
type Descriptor struct {
	Blocks []Block             `json:"blocks"`
	Menus  map[string][]string `json:"menus"`
	URL    string              `json:"url,omitempty"`
}

// Block returns the block with the given opcode.
func (d Descriptor) Block(opcode string) (Block, bool) {
	for _, b := range d.Blocks {
		if b.Opcode == opcode {
			return b, true
		}
	}
	return Block{}, false
}

// Status is what an extension reports to the host's status indicator.
type Status struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

// Status codes understood by the host.
const (
	StatusError   = 0
	StatusWarning = 1
	StatusReady   = 2
)

// Ready returns the fixed "ready" status.
func Ready() Status {
	return Status{Status: StatusReady, Msg: "Ready"}
}

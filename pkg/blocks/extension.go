package blocks

import "context"

// Handler runs one block. Command handlers return nil when they complete;
// reporter handlers return the reported value. Handlers never fail from the
// host's point of view: any failure is folded into the returned value.
type Handler func(ctx context.Context, args Args) any

// Extension is implemented by each robot platform.
type Extension interface {
	// Name is the label the host shows for the extension.
	Name() string

	// Descriptor declares the blocks and menus.
	Descriptor() Descriptor

	// Status reports readiness to the host.
	Status() Status

	// Shutdown is called when the host unloads the extension.
	Shutdown()

	// Handler returns the function that runs the block with the given opcode.
	Handler(opcode string) (Handler, bool)
}

package blocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Sentinel errors for registry operations.
var (
	ErrUnknownExtension = errors.New("blocks: unknown extension")
	ErrUnknownBlock     = errors.New("blocks: unknown block")
	ErrDuplicate        = errors.New("blocks: extension already registered")
	ErrInvalid          = errors.New("blocks: invalid descriptor")
)

// Registry is the host side of the registration call: extensions are added
// once and then looked up by name. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	exts map[string]Extension
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{exts: make(map[string]Extension)}
}

// Register validates the extension's descriptor and adds it under its name.
func (r *Registry) Register(ext Extension) error {
	name := ext.Name()
	if name == "" {
		return fmt.Errorf("%w: empty extension name", ErrInvalid)
	}
	if err := Validate(ext); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exts[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	r.exts[name] = ext
	return nil
}

// Validate checks that an extension's descriptor is consistent with its
// handlers: opcodes are unique and handled, referenced menus exist, and no
// block has more defaults than placeholders.
func Validate(ext Extension) error {
	d := ext.Descriptor()
	seen := make(map[string]bool, len(d.Blocks))
	for _, b := range d.Blocks {
		if !b.Type.Valid() {
			return fmt.Errorf("%w: block %q has unknown type %q", ErrInvalid, b.Opcode, b.Type)
		}
		if b.Opcode == "" {
			return fmt.Errorf("%w: block %q has no opcode", ErrInvalid, b.Template)
		}
		if seen[b.Opcode] {
			return fmt.Errorf("%w: duplicate opcode %q", ErrInvalid, b.Opcode)
		}
		seen[b.Opcode] = true

		if _, ok := ext.Handler(b.Opcode); !ok {
			return fmt.Errorf("%w: no handler for %q", ErrInvalid, b.Opcode)
		}
		for _, menu := range MenuRefs(b.Template) {
			if _, ok := d.Menus[menu]; !ok {
				return fmt.Errorf("%w: block %q uses undefined menu %q", ErrInvalid, b.Opcode, menu)
			}
		}
		if n := len(Placeholders(b.Template)); len(b.Defaults) > n {
			return fmt.Errorf("%w: block %q has %d defaults for %d placeholders", ErrInvalid, b.Opcode, len(b.Defaults), n)
		}
	}
	return nil
}

// Lookup returns the extension registered under name.
func (r *Registry) Lookup(name string) (Extension, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext, ok := r.exts[name]
	return ext, ok
}

// Names returns the registered extension names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.exts))
	for name := range r.exts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// handler resolves an extension and opcode.
func (r *Registry) handler(name, opcode string) (Handler, error) {
	ext, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}
	h, ok := ext.Handler(opcode)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %q", ErrUnknownBlock, opcode, name)
	}
	return h, nil
}

// Invoke runs a block and returns its value (nil for commands).
// Errors only come from resolving the block, never from running it.
func (r *Registry) Invoke(ctx context.Context, name, opcode string, args Args) (any, error) {
	h, err := r.handler(name, opcode)
	if err != nil {
		return nil, err
	}
	return h(ctx, args), nil
}

// InvokeAsync starts a block in its own goroutine. The returned channel
// delivers exactly one value (nil for commands) and is then closed.
func (r *Registry) InvokeAsync(ctx context.Context, name, opcode string, args Args) (<-chan any, error) {
	h, err := r.handler(name, opcode)
	if err != nil {
		return nil, err
	}
	return Go(ctx, h, args), nil
}

// Go runs h in a goroutine and delivers its result on a one-shot channel.
func Go(ctx context.Context, h Handler, args Args) <-chan any {
	done := make(chan any, 1)
	go func() {
		defer close(done)
		done <- h(ctx, args)
	}()
	return done
}

// Shutdown calls every extension's shutdown hook.
func (r *Registry) Shutdown() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ext := range r.exts {
		ext.Shutdown()
	}
}

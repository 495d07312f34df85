package blocks

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExt is a minimal extension whose handlers count calls.
type fakeExt struct {
	name     string
	desc     Descriptor
	handlers map[string]Handler
	shutdown atomic.Int32
}

func (f *fakeExt) Name() string           { return f.name }
func (f *fakeExt) Descriptor() Descriptor { return f.desc }
func (f *fakeExt) Status() Status         { return Ready() }
func (f *fakeExt) Shutdown()              { f.shutdown.Add(1) }
func (f *fakeExt) Handler(op string) (Handler, bool) {
	h, ok := f.handlers[op]
	return h, ok
}

func newFake() *fakeExt {
	return &fakeExt{
		name: "Fake Bot",
		desc: Descriptor{
			Blocks: []Block{
				{AsyncCommand, "set led %m.ledNo %m.onOff", "setLed", []any{"1", "on"}},
				{AsyncReporter, "distance", "getDistance", nil},
			},
			Menus: map[string][]string{
				"ledNo": {"1", "2"},
				"onOff": {"on", "off"},
			},
		},
		handlers: map[string]Handler{
			"setLed":      func(ctx context.Context, args Args) any { return nil },
			"getDistance": func(ctx context.Context, args Args) any { return 42.0 },
		},
	}
}

func TestPlaceholders(t *testing.T) {
	tmpl := "set motors left %m.forwardReverse speed %n % right %d.dir speed %s"
	assert.Equal(t, []string{"%m.forwardReverse", "%n", "%d.dir", "%s"}, Placeholders(tmpl))
	assert.Equal(t, []string{"forwardReverse", "dir"}, MenuRefs(tmpl))
	assert.Empty(t, Placeholders("stop motors"))
}

func TestBlockJSON(t *testing.T) {
	b := Block{AsyncCommand, "move %m.forwardReverse speed %n % for %n secs", "move", []any{"forward", 50, 1}}
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `["w","move %m.forwardReverse speed %n % for %n secs","move","forward",50,1]`, string(data))

	var back Block
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b.Type, back.Type)
	assert.Equal(t, b.Opcode, back.Opcode)
	assert.Equal(t, []any{"forward", 50.0, 1.0}, back.Defaults)

	assert.Error(t, json.Unmarshal([]byte(`["w","x"]`), &back))
	assert.Error(t, json.Unmarshal([]byte(`[1,"x","y"]`), &back))
}

func TestReady(t *testing.T) {
	assert.Equal(t, Status{Status: 2, Msg: "Ready"}, Ready())
}

func TestArgs(t *testing.T) {
	args := Args{"forward", 50.0, "1.5", true, nil, json.Number("7")}
	assert.Equal(t, 6, args.Len())
	assert.Equal(t, "forward", args.String(0))
	assert.Equal(t, "50", args.String(1))
	assert.Equal(t, 50.0, args.Number(1))
	assert.Equal(t, 1.5, args.Number(2))
	assert.Equal(t, 1.0, args.Number(3))
	assert.Equal(t, 0.0, args.Number(4))
	assert.Equal(t, 7.0, args.Number(5))
	assert.Equal(t, 0.0, args.Number(0), "text in a number slot is 0")
	assert.Equal(t, "", args.String(99))
	assert.Nil(t, args.Raw(-1))
}

func TestParseArgs(t *testing.T) {
	assert.Equal(t, Args{"forward", 50.0, "on"}, ParseArgs([]string{"forward", "50", "on"}))
}

func TestRegistry_RegisterAndInvoke(t *testing.T) {
	reg := NewRegistry()
	ext := newFake()
	require.NoError(t, reg.Register(ext))
	assert.Equal(t, []string{"Fake Bot"}, reg.Names())

	got, err := reg.Invoke(context.Background(), "Fake Bot", "getDistance", nil)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)

	got, err = reg.Invoke(context.Background(), "Fake Bot", "setLed", Args{"1", "on"})
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = reg.Invoke(context.Background(), "Nope", "setLed", nil)
	assert.ErrorIs(t, err, ErrUnknownExtension)
	_, err = reg.Invoke(context.Background(), "Fake Bot", "fly", nil)
	assert.ErrorIs(t, err, ErrUnknownBlock)

	assert.ErrorIs(t, reg.Register(newFake()), ErrDuplicate)

	reg.Shutdown()
	assert.Equal(t, int32(1), ext.shutdown.Load())
}

func TestRegistry_InvokeAsyncDeliversOnce(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newFake()))

	ch, err := reg.InvokeAsync(context.Background(), "Fake Bot", "getDistance", nil)
	require.NoError(t, err)

	select {
	case v := <-ch:
		assert.Equal(t, 42.0, v)
	case <-time.After(time.Second):
		t.Fatal("no result")
	}
	_, open := <-ch
	assert.False(t, open, "channel should close after one value")
}

func TestValidate(t *testing.T) {
	t.Run("missing handler", func(t *testing.T) {
		ext := newFake()
		delete(ext.handlers, "getDistance")
		assert.ErrorIs(t, Validate(ext), ErrInvalid)
	})
	t.Run("undefined menu", func(t *testing.T) {
		ext := newFake()
		delete(ext.desc.Menus, "onOff")
		assert.ErrorIs(t, Validate(ext), ErrInvalid)
	})
	t.Run("too many defaults", func(t *testing.T) {
		ext := newFake()
		ext.desc.Blocks[1].Defaults = []any{1}
		assert.ErrorIs(t, Validate(ext), ErrInvalid)
	})
	t.Run("duplicate opcode", func(t *testing.T) {
		ext := newFake()
		ext.desc.Blocks = append(ext.desc.Blocks, ext.desc.Blocks[0])
		assert.ErrorIs(t, Validate(ext), ErrInvalid)
	})
	t.Run("bad type", func(t *testing.T) {
		ext := newFake()
		ext.desc.Blocks[0].Type = "x"
		assert.ErrorIs(t, Validate(ext), ErrInvalid)
	})
	t.Run("empty name", func(t *testing.T) {
		ext := newFake()
		ext.name = ""
		assert.ErrorIs(t, NewRegistry().Register(ext), ErrInvalid)
	})
}

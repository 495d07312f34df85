// Package controller binds controller page buttons to robot calls.
//
// A Page is the interactive counterpart of a block extension: pressing a
// button gathers input fields, sends the same request the blocks send, and
// writes the response into output fields. Unlike blocks, failures are shown
// to the user through the page's alert sink.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/teslashibe/go-botblocks/internal/log"
	"github.com/teslashibe/go-botblocks/pkg/robot"
)

// Pending is written into read outputs while a request is in flight, and
// stays there if it fails.
const Pending = "?"

// ErrUnknownButton is returned by Press for a button the page does not have.
var ErrUnknownButton = errors.New("controller: unknown button")

// Form maps field ids to their values.
type Form map[string]string

// Clone returns a copy of f that is never nil.
func (f Form) Clone() Form {
	out := make(Form, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Alert shows a message to the user.
type Alert func(message string)

// Binding ties one button to a robot call.
type Binding struct {
	// Button is the id of the button element.
	Button string

	// Label is a short human description.
	Label string

	// Inputs are the field ids read by Run.
	Inputs []string

	// Outputs are the field ids written from the response. They are set to
	// Pending before Run is called.
	Outputs []string

	// Run performs the call. It returns the output values to write.
	Run func(ctx context.Context, in Form) (Form, error)
}

// Page is a set of button bindings with one alert sink.
type Page struct {
	title    string
	order    []string
	bindings map[string]Binding
	alert    Alert
	logger   *slog.Logger
}

// Option configures a Page.
type Option func(*Page)

// WithAlert sets where failure messages go.
func WithAlert(a Alert) Option {
	return func(p *Page) {
		p.alert = a
	}
}

// WithLogger sets the page logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Page) {
		p.logger = l
	}
}

func newPage(title string, opts ...Option) *Page {
	p := &Page{
		title:    title,
		bindings: make(map[string]Binding),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.L()
	}
	if p.alert == nil {
		logger := p.logger
		p.alert = func(msg string) { logger.Warn("alert", "message", msg) }
	}
	return p
}

func (p *Page) bind(b Binding) {
	if _, dup := p.bindings[b.Button]; !dup {
		p.order = append(p.order, b.Button)
	}
	p.bindings[b.Button] = b
}

// Title returns the page title.
func (p *Page) Title() string {
	return p.title
}

// Buttons returns the bindings in page order.
func (p *Page) Buttons() []Binding {
	out := make([]Binding, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.bindings[id])
	}
	return out
}

// Binding returns the binding for a button id.
func (p *Page) Binding(button string) (Binding, bool) {
	b, ok := p.bindings[button]
	return b, ok
}

// Press runs the button's binding against form and returns the updated
// form. On failure the alert sink receives "Error: <reason>", the outputs
// keep the Pending marker, and the error is returned as well.
func (p *Page) Press(ctx context.Context, button string, form Form) (Form, error) {
	out := form.Clone()
	b, ok := p.bindings[button]
	if !ok {
		return out, fmt.Errorf("%w: %q", ErrUnknownButton, button)
	}

	for _, id := range b.Outputs {
		out[id] = Pending
	}

	values, err := b.Run(ctx, out)
	if err != nil {
		p.logger.Debug("button failed", "button", button, "error", err)
		p.alert(AlertText(err))
		return out, err
	}
	for k, v := range values {
		out[k] = v
	}
	return out, nil
}

// AlertText is the alert shown for a failed press. Server rejections show
// the HTTP reason phrase; anything else shows the error itself.
func AlertText(err error) string {
	if apiErr, ok := robot.AsAPIError(err); ok {
		return "Error: " + apiErr.StatusText()
	}
	return "Error: " + err.Error()
}

// Field parsing helpers shared by the bindings.

func required(in Form, id string) (string, error) {
	v := strings.TrimSpace(in[id])
	if v == "" {
		return "", fmt.Errorf("%s is required", id)
	}
	return v, nil
}

func number(in Form, id string) (float64, error) {
	v, err := required(in, id)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", id, v)
	}
	return f, nil
}

// optionalNumber returns nil for an empty field.
func optionalNumber(in Form, id string) (*float64, error) {
	if strings.TrimSpace(in[id]) == "" {
		return nil, nil
	}
	f, err := number(in, id)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

package robot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Request describes one call against the robot server.
// It is the unit that block adapters, controller bindings and tests share.
type Request struct {
	// Name identifies the operation in logs and errors (e.g. "set_led").
	Name string

	// Method is GET, POST or PUT.
	Method string

	// Path is the absolute path below the base URL, already escaped.
	Path string

	// Body is JSON-encoded when non-nil.
	Body any
}

// Get returns a bodyless GET request.
func Get(name, path string) Request {
	return Request{Name: name, Method: http.MethodGet, Path: path}
}

// Post returns a POST request. body may be nil.
func Post(name, path string, body any) Request {
	return Request{Name: name, Method: http.MethodPost, Path: path, Body: body}
}

// Put returns a PUT request. body may be nil.
func Put(name, path string, body any) Request {
	return Request{Name: name, Method: http.MethodPut, Path: path, Body: body}
}

// URL joins the base URL and the request path.
func (r Request) URL(base string) string {
	return strings.TrimRight(base, "/") + r.Path
}

// Encode returns the JSON body, or nil if the request has none.
func (r Request) Encode() ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	data, err := json.Marshal(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s body: %w", r.Name, err)
	}
	return data, nil
}

// String renders the request as "METHOD /path".
func (r Request) String() string {
	return r.Method + " " + r.Path
}

// PathEscape escapes a single path segment the way browsers'
// encodeURIComponent does, so requests match what the block host sends.
func PathEscape(segment string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		if unreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

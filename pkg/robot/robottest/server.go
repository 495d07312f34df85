// Package robottest provides a fake robot server for tests.
package robottest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Call is one request received by the fake server.
type Call struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

// Reply is the canned response for a route.
type Reply struct {
	Status int
	Body   string
}

// Server records every request and answers from a route table.
// Unknown routes get 404, like the real servers.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []Call
	routes map[string]Reply
}

// NewServer starts a fake robot server. Call Close when done.
func NewServer() *Server {
	s := &Server{routes: make(map[string]Reply)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Handle sets the reply for method and escaped path.
func (s *Server) Handle(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = Reply{Status: status, Body: body}
}

// JSON sets a 200 JSON reply.
func (s *Server) JSON(method, path, body string) {
	s.Handle(method, path, http.StatusOK, body)
}

// NoContent sets a 204 reply.
func (s *Server) NoContent(method, path string) {
	s.Handle(method, path, http.StatusNoContent, "")
}

// Calls returns a copy of the recorded requests.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// LastCall returns the most recent request, or the zero Call.
func (s *Server) LastCall() Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return Call{}
	}
	return s.calls[len(s.calls)-1]
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := r.URL.EscapedPath()

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method:      r.Method,
		Path:        path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(body),
	})
	reply, ok := s.routes[r.Method+" "+path]
	s.mu.Unlock()

	if !ok {
		http.Error(w, "Unknown path "+path, http.StatusNotFound)
		return
	}
	if reply.Body != "" {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	}
	w.WriteHeader(reply.Status)
	io.WriteString(w, reply.Body)
}

// ClosedURL returns the URL of a server that is no longer listening, for
// exercising transport failures.
func ClosedURL() string {
	s := httptest.NewServer(http.NotFoundHandler())
	url := s.URL
	s.Close()
	return url
}

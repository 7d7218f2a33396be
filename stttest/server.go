package stttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// Reply is a canned response.
type Reply struct {
	Status      int
	ContentType string
	Body        string
}

// JSON returns a reply with v encoded as JSON. It panics if v cannot be
// encoded.
func JSON(status int, v any) Reply {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return Reply{Status: status, ContentType: "application/json", Body: string(b)}
}

// Text returns a plain text reply.
func Text(status int, body string) Reply {
	return Reply{Status: status, ContentType: "text/plain; charset=utf-8", Body: body}
}

// Request is a recorded inbound request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Form parses the body as a url-encoded form.
func (r Request) Form() url.Values {
	v, _ := url.ParseQuery(string(r.Body))
	return v
}

// Handler computes a reply for a recorded request.
type Handler func(req Request) Reply

// Server is a fake HTTP API recording every request.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	calls    map[string][]Request
}

// NewServer starts a server closed at the end of the test.
func NewServer(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		handlers: make(map[string]Handler),
		calls:    make(map[string][]Request),
	}
	engine := gin.New()
	engine.Any("/*path", s.serve)
	s.Server = httptest.NewServer(engine)
	t.Cleanup(s.Close)
	return s
}

func routeKey(method, path string) string { return method + " " + path }

func (s *Server) serve(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "read body: %v", err)
		return
	}
	req := Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
		Body:   body,
	}

	key := routeKey(req.Method, req.Path)
	s.mu.Lock()
	s.calls[key] = append(s.calls[key], req)
	h, ok := s.handlers[key]
	s.mu.Unlock()

	if !ok {
		c.String(http.StatusNotFound, "no reply configured for %s", key)
		return
	}
	reply := h(req)
	if reply.Status == 0 {
		reply.Status = http.StatusOK
	}
	c.Data(reply.Status, reply.ContentType, []byte(reply.Body))
}

// Handle routes method and path to h, replacing any previous route.
func (s *Server) Handle(method, path string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[routeKey(method, path)] = h
}

// Reply routes method and path to a queue of replies served in order. The
// last reply is repeated once the queue is drained.
func (s *Server) Reply(method, path string, replies ...Reply) {
	if len(replies) == 0 {
		panic("stttest: Reply needs at least one reply")
	}
	var mu sync.Mutex
	next := 0
	s.Handle(method, path, func(Request) Reply {
		mu.Lock()
		defer mu.Unlock()
		r := replies[next]
		if next < len(replies)-1 {
			next++
		}
		return r
	})
}

// Calls returns the requests recorded for method and path.
func (s *Server) Calls(method, path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.calls[routeKey(method, path)]...)
}

// Count returns the number of requests recorded for method and path.
func (s *Server) Count(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls[routeKey(method, path)])
}

// Reset forgets recorded requests and routes.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = make(map[string]Handler)
	s.calls = make(map[string][]Request)
}

// URL returns the absolute URL of path on the server.
func (s *Server) URL(path string) string {
	return s.Server.URL + path
}

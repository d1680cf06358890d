package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"studio/internal/services"
)

// Responder answers a single recorded request.
type Responder func(req services.TransportRequest) (*services.TransportResponse, error)

// RecordingTransport is an in-memory services.Transport that records every
// request and dispatches to the first route whose suffix ends the request URL
// (query string excluded).
type RecordingTransport struct {
	mu     sync.Mutex
	routes []route
	Calls  []services.TransportRequest
}

type route struct {
	method  string
	suffix  string
	respond Responder
}

func NewRecordingTransport() *RecordingTransport {
	return &RecordingTransport{}
}

// Handle registers a responder for method and URL suffix. Routes are tried
// in registration order.
func (t *RecordingTransport) Handle(method, suffix string, respond Responder) *RecordingTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = append(t.routes, route{method: method, suffix: suffix, respond: respond})
	return t
}

func (t *RecordingTransport) Send(ctx context.Context, req services.TransportRequest) (*services.TransportResponse, error) {
	t.mu.Lock()
	t.Calls = append(t.Calls, req)
	routes := append([]route(nil), t.routes...)
	t.mu.Unlock()

	for _, r := range routes {
		if matches(req, r.method, r.suffix) {
			return r.respond(req)
		}
	}
	return &services.TransportResponse{StatusCode: 404, Body: `{"error":{"message":"no route"}}`}, nil
}

// Count returns how many recorded requests match method and URL suffix.
func (t *RecordingTransport) Count(method, suffix string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.Calls {
		if matches(c, method, suffix) {
			n++
		}
	}
	return n
}

func matches(req services.TransportRequest, method, suffix string) bool {
	path, _, _ := strings.Cut(req.URL, "?")
	return req.Method == method && strings.HasSuffix(path, suffix)
}

// Total returns the number of recorded requests.
func (t *RecordingTransport) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Calls)
}

// JSON returns a responder that always answers status with body.
func JSON(status int, body string) Responder {
	return func(services.TransportRequest) (*services.TransportResponse, error) {
		return &services.TransportResponse{StatusCode: status, Body: body}, nil
	}
}

// Sequence answers with bodies in order and repeats the last one.
func Sequence(status int, bodies ...string) Responder {
	var mu sync.Mutex
	i := 0
	return func(services.TransportRequest) (*services.TransportResponse, error) {
		mu.Lock()
		defer mu.Unlock()
		body := bodies[i]
		if i < len(bodies)-1 {
			i++
		}
		return &services.TransportResponse{StatusCode: status, Body: body}, nil
	}
}

// Sleeper records requested delays without blocking.
type Sleeper struct {
	mu     sync.Mutex
	Delays []time.Duration
}

func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.Delays = append(s.Delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

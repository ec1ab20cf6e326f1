// Package mockapi provides a mock backend portal API for testing the
// gateway. Tests script exact responses per route and can inject
// failures: arbitrary statuses, drifted payloads, or delays long
// enough to trip the gateway timeout.
package mockapi

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Response is one scripted reply.
type Response struct {
	Status int
	Body   string
	Delay  time.Duration
}

// Server is a scriptable mock backend.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	requests  []RecordedRequest
}

// RecordedRequest captures what the gateway actually sent.
type RecordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
}

// New creates a mock backend. Routes respond 404 until scripted.
func New() *Server {
	s := &Server{responses: make(map[string]Response)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Script sets the reply for "METHOD /path".
func (s *Server) Script(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method+" "+path] = Response{Status: status, Body: body}
}

// ScriptDelay sets a reply that is held back for the given duration,
// for exercising timeout handling.
func (s *Server) ScriptDelay(method, path string, delay time.Duration, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method+" "+path] = Response{Status: status, Body: body, Delay: delay}
}

// Requests returns everything received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or nil.
func (s *Server) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	last := s.requests[len(s.requests)-1]
	return &last
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		RawQuery:      r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
	})
	resp, ok := s.responses[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not found","error":"Not Found","statusCode":404}`))
		return
	}

	if resp.Delay > 0 {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(resp.Delay):
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = w.Write([]byte(resp.Body))
}

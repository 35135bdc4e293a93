// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fakeapi is an in-process stand-in for the regulatory backend. It
// serves canned data for every endpoint the client uses, records the calls
// it receives, and can be told to fail or stall a route. Tests mount it on
// httptest; the mock-server command serves it for local demos.
package fakeapi

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Call is one recorded request.
type Call struct {
	Method string
	Route  string
	Path   string
	Query  string
	Body   []byte
}

// Server holds the fake backend's state.
type Server struct {
	engine *gin.Engine
	log    logrus.FieldLogger

	mu       sync.Mutex
	calls    []Call
	failures map[string]int
	delays   map[string]time.Duration
	token    string
	data     *dataset
}

// New builds a Server with the default dataset. A nil logger disables
// request logging.
func New(log logrus.FieldLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:   gin.New(),
		log:      log,
		failures: make(map[string]int),
		delays:   make(map[string]time.Duration),
		data:     newDataset(),
	}
	s.engine.Use(gin.Recovery())
	s.engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))
	s.engine.Use(s.record, s.control)
	s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Fail makes every request to route answer status until cleared with
// status 0. route is the registered pattern, e.g. "/api/cer/generate-advanced"
// or "/api/startup/site/:id".
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = status
}

// Delay stalls requests to route by d, or until the client gives up.
func (s *Server) Delay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d <= 0 {
		delete(s.delays, route)
		return
	}
	s.delays[route] = d
}

// RequireToken makes every /api route demand "Authorization: Bearer token".
// An empty token turns the check off.
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Calls returns the recorded calls to route, or all calls when route is "".
func (s *Server) Calls(route string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if route == "" || c.Route == route {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears recorded calls, failures, delays and the token requirement.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
	s.failures = make(map[string]int)
	s.delays = make(map[string]time.Duration)
	s.token = ""
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method: c.Request.Method,
		Route:  c.FullPath(),
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Body:   body,
	})
	s.mu.Unlock()

	start := time.Now()
	c.Next()
	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Info("fake backend request")
	}
}

func (s *Server) control(c *gin.Context) {
	route := c.FullPath()
	s.mu.Lock()
	delay := s.delays[route]
	status := s.failures[route]
	token := s.token
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}
	if token != "" && c.GetHeader("Authorization") != "Bearer "+token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}
	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"error": "injected failure"})
		return
	}
	c.Next()
}

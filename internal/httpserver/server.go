package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ShutdownTimeout bounds how long in-flight requests get to finish once a
// shutdown begins.
const ShutdownTimeout = 10 * time.Second

// Server wraps http.Server with timeouts suited to a JSON API. Video bytes
// never pass through this server; uploads and playback go straight to object
// storage via presigned URLs, so responses stay small.
type Server struct {
	inner *http.Server
}

// New constructs a server listening on the provided port.
func New(port int, handler http.Handler) *Server {
	return &Server{
		inner: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Addr returns the listen address the server was configured with.
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Start begins serving HTTP traffic and blocks until the listener closes.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown stops accepting new connections and waits for active requests,
// up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}

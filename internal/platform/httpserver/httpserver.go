package httpserver

import (
	"net/http"
	"time"
)

const (
	baseBodyTimeout = 30 * time.Second
	// Slowest upload rate the citizen forms are expected to tolerate.
	minUploadRate = 256 << 10 // bytes per second
)

type Option func(*http.Server)

// WithUploadLimit stretches the body and response deadlines so a request
// carrying maxBytes of documents still completes over a slow connection.
func WithUploadLimit(maxBytes int64) Option {
	return func(s *http.Server) {
		if maxBytes <= 0 {
			return
		}
		d := baseBodyTimeout + time.Duration(maxBytes/minUploadRate)*time.Second
		s.ReadTimeout = d
		s.WriteTimeout = d + 10*time.Second
	}
}

func New(addr string, handler http.Handler, opts ...Option) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       baseBodyTimeout,
		WriteTimeout:      baseBodyTimeout + 10*time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

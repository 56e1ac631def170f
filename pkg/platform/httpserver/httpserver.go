// Package httpserver builds HTTP servers with sane defaults for this
// project.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server wired with the platform's timeouts.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

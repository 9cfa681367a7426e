package httpserver

import (
	"net/http"
	"time"
)

// New builds the gateway's HTTP server. Policy checks are short-lived, so the
// per-connection timeouts sit well inside the router's request timeout; idle
// keep-alives from polling agents are kept around longer.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

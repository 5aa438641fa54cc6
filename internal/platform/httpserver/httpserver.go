package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server. Pages are rendered synchronously from memory,
// so generous write timeouts are unnecessary.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

package server

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

// NewHTTPServer builds the server without starting it; the caller owns
// ListenAndServe and Shutdown so in-flight requests drain on exit.
func NewHTTPServer(host string, port int, handler http.Handler) *http.Server {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

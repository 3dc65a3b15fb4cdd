package httpclient

import (
	"net/http"
	"time"
)

// sharedTransport is reused across all pooled clients so the health probe
// and generation calls draw from one connection pool to the backend.
var sharedTransport = &http.Transport{
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     120 * time.Second,
	DisableKeepAlives:   false,
}

// NewPooledClient creates an http.Client with the given timeout that shares
// a connection pool with other pooled clients.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: sharedTransport,
	}
}

// CloseIdleConnections releases idle connections held by the shared pool.
func CloseIdleConnections() {
	sharedTransport.CloseIdleConnections()
}

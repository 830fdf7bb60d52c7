package app

import (
	"net"
	"net/http"
	"time"
)

// newHTTPClient returns a client for page fetches. The overall deadline is
// applied per request by fetch.Client, so only the dial and handshake phases
// get their own bounds here. TLS verification keeps Go's defaults.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}
}

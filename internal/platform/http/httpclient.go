package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates the client used for outbound calls to the media host.
//
// http.DefaultClient has no timeout, so callers always get a client with an
// explicit overall timeout and a transport tuned for connection reuse.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

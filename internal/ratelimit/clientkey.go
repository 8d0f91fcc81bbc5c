package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// UnknownClient is the shared bucket for requests with no usable address.
const UnknownClient = "unknown"

// ClientKey returns the best available client address: the CDN header, the
// first X-Forwarded-For hop, X-Real-IP, then the connection's host.
func ClientKey(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); v != "" {
		return v
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
		return v
	}

	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	if addr != "" {
		return addr
	}
	return UnknownClient
}

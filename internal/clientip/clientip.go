// Package clientip derives the originating public IP of a request from the
// proxy header chain.
package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Header priority mirrors the proxy chain in front of the service: the
// load balancer sets X-Forwarded-For, some proxies set X-Real-IP, and
// Cloudflare sets CF-Connecting-IP.
var headerPriority = []string{"X-Forwarded-For", "X-Real-Ip", "Cf-Connecting-Ip"}

// FromRequest walks the proxy headers in priority order and returns the first
// public IP candidate. The second return is false when no public IP could be
// determined (all candidates private, malformed, or absent).
func FromRequest(r *http.Request) (string, bool) {
	for _, header := range headerPriority {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For may carry a chain; the first entry is the client.
		candidate := strings.TrimSpace(strings.SplitN(value, ",", 2)[0])
		if isPublic(candidate) {
			return candidate, true
		}
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if isPublic(host) {
		return host, true
	}

	return "", false
}

func isPublic(candidate string) bool {
	if candidate == "" || strings.EqualFold(candidate, "unknown") {
		return false
	}

	addr, err := netip.ParseAddr(candidate)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	// IsPrivate covers 10/8, 172.16/12 (exact CIDR, not the loose textual
	// 172.2*/172.3* match), 192.168/16 and fc00::/7.
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified() {
		return false
	}

	return true
}

package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ForwardedForHeader is consulted before the transport peer address so the
// limiter keys on real clients when the service sits behind a proxy. The
// value is untrusted input; deployments must ensure their proxy sets it.
const ForwardedForHeader = "X-Forwarded-For"

// ClientIdentity extracts the limiter identity for a request: the first
// comma-separated entry of the forwarded-for header when present, otherwise
// the peer address with any port stripped.
func ClientIdentity(r *http.Request) string {
	if forwarded := r.Header.Get(ForwardedForHeader); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return r.RemoteAddr
	}
	return host
}

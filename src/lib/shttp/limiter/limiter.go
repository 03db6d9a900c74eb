package limiter

import (
	"net"
	"net/http"
	"strings"
	"time"
)

// Options represents the rate limit options.
type Options struct {
	// Limit is the number of requests allowed within Duration.
	Limit int64

	// Burst is the number of tokens a client accumulates while idle.
	// Once consumed, the client receives a 429.
	Burst int

	// Duration is the window the limit applies to.
	Duration time.Duration

	// Hash specifies the parts of the request to include
	// in the rate-limiting key. Possible values are: ip, path.
	Hash []string
}

// IP returns the client address, preferring proxy headers. Only the first
// entry of a comma separated X-Forwarded-For list is used.
func IP(r *http.Request) string {
	if r == nil {
		return ""
	}

	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		return strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return remoteAddr(r)
}

func remoteAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)

	if err != nil {
		return r.RemoteAddr
	}

	ip := net.ParseIP(host)

	if ip == nil {
		return host
	}

	// IPv4-mapped IPv6 addresses are reported in their IPv4 form.
	if ipv4 := ip.To4(); ipv4 != nil {
		return ipv4.String()
	}

	return ip.String()
}

package limiter_test

import (
	"net/http"
	"testing"

	"github.com/relaypoint-io/relaypoint/src/lib/shttp/limiter"
	"github.com/stretchr/testify/assert"
)

func TestIP(t *testing.T) {
	tests := []struct {
		name     string
		req      *http.Request
		expected string
	}{
		{
			name:     "x-forwarded-for with chain",
			req:      &http.Request{Header: http.Header{"X-Forwarded-For": []string{"1.1.1.1, 10.0.0.1"}}},
			expected: "1.1.1.1",
		},
		{
			name:     "x-real-ip",
			req:      &http.Request{Header: http.Header{"X-Real-Ip": []string{"127.0.0.1"}}},
			expected: "127.0.0.1",
		},
		{
			name:     "remote addr without port",
			req:      &http.Request{RemoteAddr: "127.0.0.1"},
			expected: "127.0.0.1",
		},
		{
			name:     "ipv4 mapped ipv6",
			req:      &http.Request{RemoteAddr: "[::ffff:8.8.8.8]:443"},
			expected: "8.8.8.8",
		},
		{
			name:     "ipv6",
			req:      &http.Request{RemoteAddr: "[2001:db8::1]:443"},
			expected: "2001:db8::1",
		},
		{
			name:     "nil request",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, limiter.IP(tt.req))
		})
	}
}

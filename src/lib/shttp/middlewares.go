package shttp

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/NYTimes/gziphandler"
	"github.com/google/uuid"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp/limiter"
)

// HeaderRequestID carries the request id, either supplied by a proxy or
// generated by contextHandler.
const HeaderRequestID = "X-Request-Id"

type requestIDKey struct{}

// contextHandler assigns a request id to the request context and echoes it
// back in the response headers.
func contextHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)

		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(HeaderRequestID, id)
		h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// GzipHandler performs a gzip compression whenever the client can handle it.
func gzipHandler(h http.Handler) http.Handler {
	return gziphandler.GzipHandler(h)
}

// WithRateLimit limits a given endpoint.
// Limit is the number of events that this endpoint can handle for a given user.
// Duration is the time period which the limit is limited to.
// Burst is the maximum number of tokens the algorithm can accumulate during non-requests.
// The algorithm adds a token to the basket every 1 / rate seconds, with a maximum of burst number
// of tokens. The user will consume from this basket on each request. Once the user is out
// of tokens, a 429 error will be displayed.
func WithRateLimit(handler RequestFunc, options ...*limiter.Options) RequestFunc {
	var opts *limiter.Options

	if len(options) > 0 {
		opts = options[0]
	}

	store := limiter.NewStore(opts)

	return func(req *RequestContext) *Response {
		if req.writer == nil {
			return handler(req)
		}

		hash := []string{}

		for _, k := range store.Hash {
			switch k {
			case "ip":
				hash = append(hash, limiter.IP(req.Request))
			case "path":
				hash = append(hash, req.Request.URL.Path)
			}
		}

		visit := store.Get(strings.Join(hash, "-"))
		limit := fmt.Sprintf("%d/%s", store.Limit, store.Duration.String())
		reset := strconv.FormatInt(visit.LastSeen.Add(store.Duration).Unix(), 10)

		if !visit.Limiter.Allow() {
			headers := http.Header{}
			headers.Add("X-RateLimit-Limit", limit)
			headers.Add("X-RateLimit-Reset", reset)
			headers.Add("X-RateLimit-Remaining", "0")

			return &Response{
				Status:  http.StatusTooManyRequests,
				Data:    "Too many requests",
				Headers: headers,
			}
		}

		remaining := store.Limit - visit.Count

		if remaining <= 0 {
			remaining = remaining + int64(store.Burst)
		}

		req.writer.Header().Add("X-RateLimit-Limit", limit)
		req.writer.Header().Add("X-RateLimit-Reset", reset)
		req.writer.Header().Add("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		return handler(req)
	}
}

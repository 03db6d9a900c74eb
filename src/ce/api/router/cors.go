package router

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/relaypoint-io/relaypoint/src/lib/slog"
)

var AllowedHeaders = []string{
	"Authorization",
	"Content-Type",
	"Cache-Control",
	"X-Request-Id",
}

var AllowedMethods = []string{
	"POST",
	"GET",
	"OPTIONS",
}

// CompileOrigins compiles the allowed origin patterns. Invalid patterns are
// logged and skipped.
func CompileOrigins(patterns []string) []*regexp.Regexp {
	origins := []*regexp.Regexp{}

	for _, p := range patterns {
		re, err := regexp.Compile(p)

		if err != nil {
			slog.Errorf("invalid cors origin pattern %s: %s", p, err.Error())
			continue
		}

		origins = append(origins, re)
	}

	return origins
}

// WithCors returns a middleware adding cors headers for the allowed origins.
// Preflight requests from allowed origins are answered right away.
func WithCors(origins []*regexp.Regexp) func(h http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			for _, re := range origins {
				if origin == "" || !re.MatchString(origin) {
					continue
				}

				w.Header().Add("Access-Control-Allow-Origin", origin)
				w.Header().Add("Access-Control-Allow-Headers", strings.Join(AllowedHeaders, ","))
				w.Header().Add("Access-Control-Allow-Methods", strings.Join(AllowedMethods, ","))
				w.Header().Add("Access-Control-Max-Age", "86400")
				w.Header().Add("Vary", "Origin")

				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusOK)
					return
				}

				break
			}

			h.ServeHTTP(w, r)
		})
	}
}

package shttp_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/relaypoint-io/relaypoint/src/lib/shttp"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp/limiter"
	"github.com/stretchr/testify/assert"
)

func TestWithRateLimit(t *testing.T) {
	handler := func(req *shttp.RequestContext) *shttp.Response {
		return shttp.OK()
	}

	opt := &limiter.Options{Limit: 1, Duration: time.Second, Burst: 5}
	mdw := shttp.WithRateLimit(handler, opt)
	req := &shttp.RequestContext{
		Request: &http.Request{
			RemoteAddr: "8.8.8.8",
			URL: &url.URL{
				Path: "my-path",
			},
		},
	}

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		req.SetWriter(rec)
		res := mdw(req)

		if i < opt.Burst {
			assert.Equal(t, http.StatusOK, res.Status)
			assert.Equal(t, "1/1s", rec.Header().Get("X-RateLimit-Limit"))

			remaining, _ := strconv.Atoi(rec.Header().Get("X-RateLimit-Remaining"))
			assert.Greater(t, remaining, 0)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, res.Status)
			assert.Equal(t, "1/1s", res.Headers.Get("X-RateLimit-Limit"))
			assert.Equal(t, "0", res.Headers.Get("X-RateLimit-Remaining"))
		}

		time.Sleep(time.Millisecond)
	}
}

func TestWithContext_AssignsRequestID(t *testing.T) {
	r := shttp.NewRouter()
	s := r.NewService()

	s.NewEndpoint("/id").Handler(shttp.MethodGet, "", func(req *shttp.RequestContext) *shttp.Response {
		return &shttp.Response{Status: http.StatusOK, Data: req.RequestID()}
	})

	handler := r.WithContext().Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))

	id := w.Header().Get(shttp.HeaderRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	// A valid incoming id is kept
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(shttp.HeaderRequestID, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	handler.ServeHTTP(w, req)

	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", w.Body.String())
}

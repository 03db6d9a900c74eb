package shttp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/relaypoint-io/relaypoint/src/lib/config"
	"github.com/relaypoint-io/relaypoint/src/lib/slog"
	"github.com/relaypoint-io/relaypoint/src/lib/tracking"
)

// ServiceFunc represents a service function signature.
type ServiceFunc func(r *Router) *Service

// RequestFunc represents a request function signature.
type RequestFunc func(*RequestContext) *Response

// Service is a service wrapper for the given endpoints.
type Service struct {
	router   *Router
	handlers map[string]RequestFunc
}

// NewEndpoint returns a new endpoint handler.
// The returned instance can be used to attach handlers to various endpoints.
func (s *Service) NewEndpoint(ep string) *ServiceEndpoint {
	return &ServiceEndpoint{
		service: s,
		prefix:  ep,
	}
}

// HandlerKeys returns the registered handler endpoints.
func (s *Service) HandlerKeys() []string {
	handlers := []string{}

	for k := range s.handlers {
		handlers = append(handlers, k)
	}

	sort.Strings(handlers)

	return handlers
}

// ServiceEndpoint is a handler for endpoints. It allows attaching
// handlers to various endpoints
type ServiceEndpoint struct {
	service *Service
	prefix  string
}

// Handler is a middleware for generic routes.
func (se *ServiceEndpoint) Handler(method, path string, handler RequestFunc) *ServiceEndpoint {
	endpoint := se.prefix + path

	se.service.router.mux.HandleFunc(
		endpoint,
		func(w http.ResponseWriter, r *http.Request) {
			req := requestContext(w, r)
			res := handler(req)
			se.Send(w, req, res)

			if res != nil {
				tracking.RecordResponseTime(r, res.Status, time.Since(req.StartTime))
			}
		},
	).Methods(method)

	if config.IsTest() {
		if se.service.handlers == nil {
			se.service.handlers = map[string]RequestFunc{}
		}

		se.service.handlers[fmt.Sprintf("%s:%s", method, endpoint)] = handler
	}

	return se
}

func (se *ServiceEndpoint) attachHeadersAndCookies(w http.ResponseWriter, res *Response) {
	for _, c := range res.Cookies {
		http.SetCookie(w, &c)
	}

	for k, v := range res.Headers {
		for _, h := range v {
			w.Header().Add(k, h)
		}
	}
}

// Send sends a response to the client.
func (se *ServiceEndpoint) Send(w http.ResponseWriter, req *RequestContext, res *Response) {
	if res == nil {
		return
	}

	if res.Headers == nil {
		res.Headers = make(http.Header)
	}

	if res.Error != nil && res.Status >= http.StatusInternalServerError {
		slog.Errorf("http response error: method=%s path=%s request_id=%s: %s", req.Method, req.URL.Path, req.RequestID(), res.Error.Error())
	}

	if res.Redirect != nil {
		se.attachHeadersAndCookies(w, res)
		req.Redirect(*res.Redirect, res.Status)
		return
	}

	// Already compressed payloads bypass the gzip writer.
	if ce := res.Headers.Get("Content-Encoding"); ce == "gzip" || ce == "br" {
		if t, ok := w.(*gziphandler.GzipResponseWriter); ok {
			se.Write(t.ResponseWriter, res)
			return
		}
	}

	se.Write(w, res)
}

// Write writes a response to the client.
func (se *ServiceEndpoint) Write(w http.ResponseWriter, res *Response) {
	if res.Headers.Get("Content-Type") == "" {
		res.Headers.Set("Content-Type", "application/json")
	}

	se.attachHeadersAndCookies(w, res)

	if res.Status == 0 {
		res.Status = http.StatusOK
	}

	w.WriteHeader(res.Status)

	switch data := res.Data.(type) {
	case []byte:
		w.Write(data)

	case string:
		w.Write([]byte(data))

	case io.Reader:
		if _, err := io.Copy(w, data); err != nil {
			slog.Errorf("failed to write response body: %s", err.Error())
		}

	default:
		if res.Data == nil {
			return
		}

		if err := json.NewEncoder(w).Encode(res.Data); err != nil {
			slog.Errorf("failed to encode response: %s", err.Error())
		}
	}
}

func requestContext(w http.ResponseWriter, r *http.Request) *RequestContext {
	return &RequestContext{
		writer:    w,
		Request:   r,
		StartTime: time.Now(),
	}
}

package shttp

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/relaypoint-io/relaypoint/src/lib/errors"
)

// maxFormMemory bounds the memory used to parse multipart bodies.
const maxFormMemory = 1 << 20

// RequestContext is the context for the current request.
type RequestContext struct {
	*http.Request
	writer http.ResponseWriter

	// StartTime is the time when the request was first received.
	StartTime time.Time

	parsedURL url.Values
}

// NewRequestContext returns a new context object.
func NewRequestContext(req *http.Request) *RequestContext {
	if req == nil {
		req = &http.Request{}
	}

	return &RequestContext{
		Request:   req,
		StartTime: time.Now(),
	}
}

// Http methods
const (
	MethodPost    = http.MethodPost
	MethodGet     = http.MethodGet
	MethodPut     = http.MethodPut
	MethodDelete  = http.MethodDelete
	MethodOptions = http.MethodOptions
	MethodHead    = http.MethodHead
	MethodPatch   = http.MethodPatch
)

// SetWriter allows setting a different writer than http.ResponseWriter.
// It is mostly used for test purposes.
func (r *RequestContext) SetWriter(w http.ResponseWriter) {
	r.writer = w
}

// Query returns the query parameters.
func (r *RequestContext) Query() url.Values {
	if r.Request == nil || r.Request.URL == nil {
		return url.Values{}
	}

	if r.parsedURL == nil {
		r.parsedURL = r.Request.URL.Query()
	}

	return r.parsedURL
}

// Params flattens the query string and, for form encoded bodies, the form
// values into a single map. Form values take precedence over query values.
// Only the first value of a repeated key is kept.
func (r *RequestContext) Params() (map[string]any, error) {
	params := map[string]any{}

	for k, v := range r.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	if r.Request == nil || r.Request.Body == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
		return params, nil
	}

	if err := r.Request.ParseMultipartForm(maxFormMemory); err != nil && err != http.ErrNotMultipart {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, fmt.Sprintf("failed to parse form body: method=%s path=%s", r.Method, r.Request.URL.Path))
	}

	for k, v := range r.Request.PostForm {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	return params, nil
}

// RequestID returns the id assigned by the context middleware.
func (r *RequestContext) RequestID() string {
	if r.Request == nil {
		return ""
	}

	if id, ok := r.Request.Context().Value(requestIDKey{}).(string); ok {
		return id
	}

	return ""
}

// Redirect redirects the url.
func (r *RequestContext) Redirect(url string, status int) {
	if status == 0 {
		status = http.StatusFound
	}

	http.Redirect(r.writer, r.Request, url, status)
}

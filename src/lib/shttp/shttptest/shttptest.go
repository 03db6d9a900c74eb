package shttptest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// Response wraps httptest.ResponseRecorder
type Response struct {
	*httptest.ResponseRecorder
}

// String returns the response as a string.
func (r *Response) String() string {
	return strings.TrimSpace(string(r.Byte()))
}

// Byte returns the response as an array of bytes.
func (r *Response) Byte() []byte {
	b, err := io.ReadAll(r.Body)

	if err != nil {
		panic(err)
	}

	return b
}

// Map decodes a JSON response body into a map.
func (r *Response) Map() map[string]any {
	m := map[string]any{}

	if err := json.Unmarshal(r.Byte(), &m); err != nil {
		panic("Was expecting a JSON object response but could not decode it: " + err.Error())
	}

	return m
}

// Location parses the Location header of a redirect response.
func (r *Response) Location() *url.URL {
	u, err := url.Parse(r.Header().Get("Location"))

	if err != nil {
		panic(err)
	}

	return u
}

// Request is used to test a generic endpoint.
func Request(h http.Handler, method, target string, body any) Response {
	return RequestWithHeaders(h, method, target, body, nil)
}

// Form submits the given values as an url-encoded form.
func Form(h http.Handler, method, target string, values url.Values) Response {
	return RequestWithHeaders(h, method, target, values.Encode(), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
}

// RequestWithHeaders is used to test a generic endpoint. JSON requests have
// their body marshaled, any other content type expects a string body.
func RequestWithHeaders(h http.Handler, method, target string, body any, headers map[string]string) Response {
	var httpBody io.Reader
	httpHeaders := make(http.Header)

	for k, v := range headers {
		httpHeaders.Add(k, v)
	}

	if httpHeaders.Get("Content-Type") == "" {
		httpHeaders.Set("Content-Type", "application/json")
	}

	if httpHeaders.Get("Content-Type") == "application/json" {
		if body != nil {
			data, err := json.Marshal(body)

			if err != nil {
				panic("Was expecting to marshal request data but could not")
			}

			httpBody = bytes.NewReader(data)
		}
	} else if s, ok := body.(string); ok {
		httpBody = strings.NewReader(s)
	}

	r := httptest.NewRequest(method, target, httpBody)
	w := httptest.NewRecorder()

	r.Header = httpHeaders

	h.ServeHTTP(w, r)
	return Response{w}
}

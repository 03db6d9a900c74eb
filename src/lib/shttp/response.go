package shttp

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/relaypoint-io/relaypoint/src/lib/shttp/shttperr"
)

// Response is the http response.
type Response struct {
	// Status is the status code.
	Status int

	// Data is the payload to return.
	// Strings, byte slices and readers are written as is, anything else is JSON encoded.
	Data any

	// Headers are the response headers.
	Headers http.Header

	// Cookies are used to set cookies.
	Cookies []http.Cookie

	// Error is the cause of a failed request. Send logs it for 5xx responses.
	Error error

	// Redirect is the location to redirect to. Status defaults to 302.
	Redirect *string
}

// String returns the string representation of a response.
func (r *Response) String() string {
	data, _ := json.Marshal(r.Data)
	return string(data)
}

// NotFound returns a not found response.
func NotFound() *Response {
	return &Response{
		Status: http.StatusNotFound,
	}
}

// OK returns an ok response.
func OK() *Response {
	return &Response{
		Status: http.StatusOK,
		Data: map[string]bool{
			"ok": true,
		},
	}
}

// Found returns a 302 response redirecting to the given location.
func Found(location string) *Response {
	return &Response{
		Status:   http.StatusFound,
		Redirect: &location,
	}
}

// Error converts the error into a response. Errors created with shttperr
// carry their own status and code; any other error is reported as an
// unexpected error.
func Error(err error) *Response {
	var serr *shttperr.Error

	if !stderrors.As(err, &serr) {
		return UnexpectedError(err)
	}

	return &Response{
		Status: serr.Status(),
		Error:  serr.OriginalError,
		Data: struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}{serr.Error(), serr.Code()},
	}
}

// UnexpectedError hides the error behind a generic payload. The error
// itself is logged when the response is sent.
func UnexpectedError(err error) *Response {
	return &Response{
		Status: http.StatusInternalServerError,
		Error:  err,
		Data: map[string]any{
			"ok":    false,
			"error": "unexpected-error",
		},
	}
}

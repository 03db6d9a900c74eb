package shttp_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/relaypoint-io/relaypoint/src/lib/shttp"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp/shttperr"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp/shttptest"
	"github.com/stretchr/testify/suite"
)

type ResponseSuite struct {
	suite.Suite
}

func (s *ResponseSuite) Test_ErrorWithCode() {
	original := errors.New("hmac mismatch")
	res := shttp.Error(shttperr.New(http.StatusBadRequest, "Signature is invalid.", "invalid-signature").SetOriginal(original))

	s.Equal(http.StatusBadRequest, res.Status)
	s.Equal(original, res.Error)
	s.JSONEq(`{"error":"Signature is invalid.","code":"invalid-signature"}`, res.String())
}

func (s *ResponseSuite) Test_ErrorWrapped() {
	serr := shttperr.New(http.StatusBadRequest, "Missing parameter.", "missing-parameter")
	res := shttp.Error(fmt.Errorf("handler: %w", serr))

	s.Equal(http.StatusBadRequest, res.Status)
}

func (s *ResponseSuite) Test_UnexpectedError() {
	res := shttp.Error(errors.New("boom"))

	s.Equal(http.StatusInternalServerError, res.Status)
	s.JSONEq(`{"ok":false,"error":"unexpected-error"}`, res.String())
}

func (s *ResponseSuite) Test_SendUnexpectedError() {
	r := shttp.NewRouter()
	r.NewService().NewEndpoint("/fail").Handler(shttp.MethodGet, "", func(req *shttp.RequestContext) *shttp.Response {
		return shttp.Error(errors.New("signer unavailable"))
	})

	res := shttptest.Request(r.WithContext().Handler(), http.MethodGet, "/fail", nil)

	s.Equal(http.StatusInternalServerError, res.Code)
	s.NotEmpty(res.Header().Get(shttp.HeaderRequestID))
	s.Equal(map[string]any{"ok": false, "error": "unexpected-error"}, res.Map())
}

func (s *ResponseSuite) Test_Found() {
	r := shttp.NewRouter()
	r.NewService().NewEndpoint("/go").Handler(shttp.MethodGet, "", func(req *shttp.RequestContext) *shttp.Response {
		return shttp.Found("/somewhere?state=abc")
	})

	res := shttptest.Request(r.Handler(), http.MethodGet, "/go", nil)

	s.Equal(http.StatusFound, res.Code)
	s.Equal("/somewhere?state=abc", res.Header().Get("Location"))
}

func (s *ResponseSuite) Test_WriteVariants() {
	r := shttp.NewRouter()
	e := r.NewService().NewEndpoint("/write")

	e.Handler(shttp.MethodGet, "/string", func(req *shttp.RequestContext) *shttp.Response {
		return &shttp.Response{Data: "plain", Headers: http.Header{"Content-Type": []string{"text/plain"}}}
	})

	e.Handler(shttp.MethodGet, "/json", func(req *shttp.RequestContext) *shttp.Response {
		return shttp.OK()
	})

	res := shttptest.Request(r.Handler(), http.MethodGet, "/write/string", nil)
	s.Equal(http.StatusOK, res.Code)
	s.Equal("plain", res.String())
	s.Equal("text/plain", res.Header().Get("Content-Type"))

	res = shttptest.Request(r.Handler(), http.MethodGet, "/write/json", nil)
	s.Equal("application/json", res.Header().Get("Content-Type"))
	s.Equal(map[string]any{"ok": true}, res.Map())
}

func (s *ResponseSuite) Test_Params() {
	body := url.Values{"metadata": {"{}"}, "external_id": {"form"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/?external_id=query&org_slug=acme&org_slug=other", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	params, err := shttp.NewRequestContext(req).Params()

	s.NoError(err)
	s.Equal(map[string]any{
		"external_id": "form",
		"org_slug":    "acme",
		"metadata":    "{}",
	}, params)

	params, err = shttp.NewRequestContext(httptest.NewRequest(http.MethodGet, "/?a=1", nil)).Params()
	s.NoError(err)
	s.Equal(map[string]any{"a": "1"}, params)
}

func TestResponse(t *testing.T) {
	suite.Run(t, &ResponseSuite{})
}

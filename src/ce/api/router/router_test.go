package router_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/relaypoint-io/relaypoint/src/ce/api/router"
	"github.com/relaypoint-io/relaypoint/src/lib/config"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp/shttptest"
	"github.com/relaypoint-io/relaypoint/src/lib/signing"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	suite.Suite

	cnf *config.Config
}

func (s *RouterSuite) SetupTest() {
	cnf, err := config.Load()
	s.NoError(err)

	s.cnf = cnf
}

func (s *RouterSuite) Test_Routes() {
	r, err := router.Get(s.cnf)
	s.NoError(err)

	response := shttptest.Request(r.Handler(), http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, response.Code)

	response = shttptest.Request(r.Handler(), http.MethodGet, "/extensions/jira/extension-configuration/", nil)
	s.Equal(http.StatusBadRequest, response.Code)
	s.Equal("missing-parameter", response.Map()["code"])
}

func (s *RouterSuite) Test_StrictMetadata() {
	s.cnf.Integrations.StrictMetadata = true

	r, err := router.Get(s.cnf)
	s.NoError(err)

	signer, err := signing.New(s.cnf.Signing)
	s.NoError(err)

	token, err := signer.Sign(map[string]any{"metadata": `"just a string"`})
	s.NoError(err)

	target := "/extensions/jira/extension-configuration/?" + url.Values{"signed_params": {token}}.Encode()
	response := shttptest.Request(r.Handler(), http.MethodGet, target, nil)

	s.Equal(http.StatusBadRequest, response.Code)
	s.Equal("malformed-metadata", response.Map()["code"])
}

func (s *RouterSuite) Test_StateIsSignedUnderItsOwnSalt() {
	for _, backend := range []string{config.SigningBackendTimestamp, config.SigningBackendJWT} {
		s.cnf.Signing.Backend = backend

		r, err := router.Get(s.cnf)
		s.NoError(err)

		signer, err := signing.New(s.cnf.Signing)
		s.NoError(err)

		token, err := signer.Sign(map[string]any{"metadata": `{}`})
		s.NoError(err)

		response := shttptest.Request(r.Handler(), http.MethodGet, "/extensions/jira/extension-configuration/?"+url.Values{"signed_params": {token}}.Encode(), nil)
		s.Equal(http.StatusFound, response.Code, backend)

		state := response.Location().Query().Get("state")

		response = shttptest.Request(r.Handler(), http.MethodGet, "/extensions/jira/extension-configuration/?"+url.Values{"signed_params": {state}}.Encode(), nil)
		s.Equal(http.StatusBadRequest, response.Code, backend)
		s.Equal("invalid-signature", response.Map()["code"], backend)
	}
}

func (s *RouterSuite) Test_InvalidSigningBackend() {
	s.cnf.Signing.Backend = "xml"

	_, err := router.Get(s.cnf)
	s.Error(err)
}

func TestRouter(t *testing.T) {
	suite.Run(t, &RouterSuite{})
}

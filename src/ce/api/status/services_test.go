package status_test

import (
	"net/http"
	"testing"

	"github.com/relaypoint-io/relaypoint/src/ce/api/status"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp/shttptest"
	"github.com/stretchr/testify/suite"
)

type ServicesSuite struct {
	suite.Suite
}

func (s *ServicesSuite) TestServices() {
	services := shttp.NewRouter().RegisterService(status.Services)

	s.Equal([]string{
		"GET:/",
		"GET:/health",
		"HEAD:/",
	}, services.HandlerKeys())
}

func (s *ServicesSuite) TestStatus() {
	r := shttp.NewRouter()
	r.RegisterService(status.Services)

	response := shttptest.Request(r.Handler(), http.MethodGet, "/", nil)
	s.Equal(http.StatusOK, response.Code)
	s.Equal(map[string]any{"ok": true}, response.Map())

	response = shttptest.Request(r.Handler(), http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, response.Code)
}

func TestServices(t *testing.T) {
	suite.Run(t, &ServicesSuite{})
}

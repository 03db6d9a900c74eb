package status

import (
	"net/http"

	"github.com/relaypoint-io/relaypoint/src/lib/shttp"
)

// Services installs the api-status handlers. GET and HEAD / answer load
// balancer checks, /health is an empty 200 for orchestrators.
func Services(r *shttp.Router) *shttp.Service {
	s := r.NewService()
	e := s.NewEndpoint("/")

	e.Handler(shttp.MethodGet, "", handlerAPIStatus)
	e.Handler(shttp.MethodHead, "", handlerAPIStatus)
	e.Handler(shttp.MethodGet, "health", handlerAPIHealth)

	return s
}

// handlerAPIStatus reports that the api accepts requests.
func handlerAPIStatus(req *shttp.RequestContext) *shttp.Response {
	return shttp.OK()
}

// handlerAPIHealth is a body-less liveness check.
func handlerAPIHealth(req *shttp.RequestContext) *shttp.Response {
	return &shttp.Response{
		Status: http.StatusOK,
	}
}

package shttp

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router represents an api router.
type Router struct {
	mux     *mux.Router
	handler http.Handler
}

// NewRouter creates a new router instance. Trailing slashes are significant:
// provider paths such as /extensions/jira/extension-configuration/ are
// registered verbatim.
func NewRouter() *Router {
	return &Router{
		mux: mux.NewRouter().StrictSlash(false),
	}
}

// NewService returns a service bound to this router.
func (r *Router) NewService() *Service {
	return &Service{router: r}
}

// RegisterService registers the given service handler.
func (r *Router) RegisterService(s ServiceFunc) *Service {
	return s(r)
}

// RegisterMiddleware wraps the current handler chain with the given middleware.
// Middlewares registered later run first.
func (r *Router) RegisterMiddleware(handler func(h http.Handler) http.Handler) {
	if r.handler != nil {
		r.handler = handler(r.handler)
	} else {
		r.handler = handler(r.mux)
	}
}

// WithContext attaches a request id to every request.
func (r *Router) WithContext() *Router {
	r.RegisterMiddleware(contextHandler)
	return r
}

// WithGzip enables gzipped responses.
func (r *Router) WithGzip() *Router {
	r.RegisterMiddleware(gzipHandler)
	return r
}

// Handler returns the handler.
func (r *Router) Handler() http.Handler {
	if r.handler == nil {
		return r.mux
	}

	return r.handler
}

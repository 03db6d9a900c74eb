package router

import (
	"net/http"
	"time"

	"github.com/relaypoint-io/relaypoint/src/ce/api/integrations/extension"
	"github.com/relaypoint-io/relaypoint/src/ce/api/integrations/extension/extensionhandlers"
	"github.com/relaypoint-io/relaypoint/src/ce/api/status"
	"github.com/relaypoint-io/relaypoint/src/lib/config"
	"github.com/relaypoint-io/relaypoint/src/lib/errors"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp"
	"github.com/relaypoint-io/relaypoint/src/lib/signing"
)

// Get builds the api router from the given configuration.
func Get(c *config.Config) (*shttp.Router, error) {
	signer, err := signing.New(c.Signing)

	if err != nil {
		return nil, err
	}

	state, err := signing.New(c.Signing, signing.WithSalt(c.Signing.Salt+extension.StateSaltSuffix))

	if err != nil {
		return nil, err
	}

	configurers, err := Configurers(c, signer)

	if err != nil {
		return nil, err
	}

	r := shttp.NewRouter()
	r.RegisterMiddleware(WithTimeout(c.HTTPTimeouts.HandlerTimeout))
	r.RegisterMiddleware(WithCors(CompileOrigins(c.AllowedOrigins)))

	r.RegisterService(status.Services)
	r.RegisterService(extensionhandlers.New(state, configurers...).Services)

	return r, nil
}

// Configurers returns the providers supporting the extension configuration flow.
func Configurers(c *config.Config, signer signing.Signer) ([]extension.Configurer, error) {
	opts := []extension.Option{}

	if c.Integrations != nil && c.Integrations.StrictMetadata {
		schema, err := extension.JiraMetadataSchema()

		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfiguration, "strict metadata validation is enabled but the schema is unavailable")
		}

		opts = append(opts, extension.WithMetadataSchema(schema))
	}

	return []extension.Configurer{
		extension.NewJira(signer, opts...),
	}, nil
}

// WithTimeout bounds the time spent in handlers.
func WithTimeout(timeout time.Duration) func(h http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.TimeoutHandler(h, timeout, "timeout")
	}
}

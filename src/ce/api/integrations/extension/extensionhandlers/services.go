package extensionhandlers

import (
	"time"

	"github.com/relaypoint-io/relaypoint/src/ce/api/integrations/extension"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp/limiter"
	"github.com/relaypoint-io/relaypoint/src/lib/signing"
)

// View is the generic extension configuration view. It serves the
// configuration path of every registered provider and hands the verified
// state over to the provider's setup path.
type View struct {
	configurers []extension.Configurer

	// state signs the verified state handed over to the setup step. It must
	// use a salt of its own, see extension.StateSaltSuffix.
	state signing.Signer
}

// New returns a view serving the given configurers.
func New(state signing.Signer, configurers ...extension.Configurer) *View {
	return &View{
		configurers: configurers,
		state:       state,
	}
}

// State verifies a state token produced by the view. Tokens older than
// extension.StateExpiration are rejected.
func (v *View) State(token string) (extension.Params, error) {
	fields, err := v.state.Unsign(token, extension.StateExpiration)

	if err != nil {
		return nil, &extension.ExpiredOrInvalidSignatureError{Err: err}
	}

	return fields, nil
}

// Services sets the Handlers for this service.
func (v *View) Services(r *shttp.Router) *shttp.Service {
	s := r.NewService()
	opts := &limiter.Options{Limit: 30, Burst: 30, Duration: time.Minute}

	for _, c := range v.configurers {
		handler := shttp.WithRateLimit(v.handlerConfigure(c), opts)

		s.NewEndpoint(c.ConfigurePath()).
			Handler(shttp.MethodGet, "", handler).
			Handler(shttp.MethodPost, "", handler)
	}

	return s
}

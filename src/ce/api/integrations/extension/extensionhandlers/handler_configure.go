package extensionhandlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/relaypoint-io/relaypoint/src/ce/api/integrations/extension"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp/shttperr"
	"github.com/relaypoint-io/relaypoint/src/lib/slog"
	"github.com/relaypoint-io/relaypoint/src/lib/tracking"
	"go.uber.org/zap"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// handlerConfigure verifies the parameters sent by the provider and redirects
// the user to the setup step with the verified state.
func (v *View) handlerConfigure(c extension.Configurer) shttp.RequestFunc {
	return func(req *shttp.RequestContext) *shttp.Response {
		params, err := req.Params()

		if err != nil {
			tracking.RecordExtensionConfiguration(c.Provider(), "invalid-request")
			return shttp.Error(shttperr.New(http.StatusBadRequest, "Request body cannot be parsed.", "invalid-request").SetOriginal(err))
		}

		state, err := c.MapParamsToState(params)

		if err != nil {
			serr := toHTTPError(err)

			tracking.RecordExtensionConfiguration(c.Provider(), serr.Code())
			slog.Errorw("extension configuration failed",
				zap.String("provider", c.Provider()),
				zap.String("code", serr.Code()),
				zap.String("request_id", req.RequestID()),
				zap.Error(err),
			)

			return shttp.Error(serr)
		}

		token, err := v.state.Sign(state)

		if err != nil {
			tracking.RecordExtensionConfiguration(c.Provider(), outcomeError)
			return shttp.Error(err)
		}

		query := url.Values{
			"state":             {token},
			"external_provider": {c.ExternalProviderKey()},
		}

		if slug, ok := state["org_slug"].(string); ok && slug != "" {
			query.Set("org_slug", slug)
		}

		tracking.RecordExtensionConfiguration(c.Provider(), outcomeSuccess)
		slog.Infow("extension configured",
			zap.String("provider", c.Provider()),
			zap.String("external_provider", c.ExternalProviderKey()),
			zap.String("request_id", req.RequestID()),
		)

		return shttp.Found(extension.SetupPath(c.Provider()) + "?" + query.Encode())
	}
}

// toHTTPError maps the adapter errors to client errors. Unknown errors are
// wrapped as they are and reported as unexpected errors.
func toHTTPError(err error) *shttperr.Error {
	var (
		missing   *extension.MissingParameterError
		signature *extension.ExpiredOrInvalidSignatureError
		malformed *extension.MalformedMetadataError
	)

	switch {
	case stderrors.As(err, &missing):
		return shttperr.New(http.StatusBadRequest, fmt.Sprintf("Missing required parameter: %s.", missing.Key), "missing-parameter").SetOriginal(err)
	case stderrors.As(err, &signature) && signature.Expired():
		return shttperr.New(http.StatusBadRequest, "The installation link has expired. Please restart the installation from the provider.", "expired-signature").SetOriginal(err)
	case signature != nil:
		return shttperr.New(http.StatusBadRequest, "The installation link is invalid.", "invalid-signature").SetOriginal(err)
	case stderrors.As(err, &malformed):
		return shttperr.New(http.StatusBadRequest, "Installation metadata is malformed.", "malformed-metadata").SetOriginal(err)
	default:
		return shttperr.New(http.StatusInternalServerError, "Something went wrong.", "unexpected-error").SetOriginal(err)
	}
}

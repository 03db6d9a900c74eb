// Package extension turns the signed parameters sent by an integration
// provider's "configure" link into verified installation state.
package extension

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/relaypoint-io/relaypoint/src/lib/errors"
	"github.com/relaypoint-io/relaypoint/src/lib/signing"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// InstallExpiration is the time a user has to finish an installation
// once the provider signed the parameters.
const InstallExpiration = 24 * time.Hour

// StateExpiration bounds the time between the configuration view and the
// setup step consuming the verified state.
const StateExpiration = 10 * time.Minute

// StateSaltSuffix is appended to the signing salt to build the signer of
// the verified state. State tokens are therefore never accepted as
// signed_params.
const StateSaltSuffix = ":extension-state"

// Parameter keys.
const (
	KeySignedParams = "signed_params"
	KeyMetadata     = "metadata"
)

// Params holds installation parameters keyed by name.
type Params map[string]any

// Configurer is implemented by every provider that supports the extension
// configuration flow. The generic configuration view composes with it.
type Configurer interface {
	// Provider returns the provider key, e.g. jira.
	Provider() string

	// ExternalProviderKey returns the key the provider uses to identify
	// itself on its side of the installation.
	ExternalProviderKey() string

	// ConfigurePath returns the path serving the configuration view.
	ConfigurePath() string

	// MapParamsToState verifies the incoming parameters and returns the state
	// used to complete the installation. The given params are left untouched.
	MapParamsToState(params Params) (Params, error)
}

// ConfigurePath returns the configuration path of the given provider.
func ConfigurePath(provider string) string {
	return fmt.Sprintf("/extensions/%s/extension-configuration/", provider)
}

// SetupPath returns the path the configuration view hands the verified state to.
func SetupPath(provider string) string {
	return fmt.Sprintf("/extensions/%s/setup/", provider)
}

// Adapter implements Configurer for providers that sign their parameters
// and embed a JSON encoded metadata field.
type Adapter struct {
	provider    string
	externalKey string
	signer      signing.Signer
	maxAge      time.Duration
	schema      *jsonschema.Schema
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithMaxAge overrides InstallExpiration.
func WithMaxAge(maxAge time.Duration) Option {
	return func(a *Adapter) {
		a.maxAge = maxAge
	}
}

// WithExternalProviderKey sets the external provider key. It defaults to
// the provider key.
func WithExternalProviderKey(key string) Option {
	return func(a *Adapter) {
		a.externalKey = key
	}
}

// WithMetadataSchema validates the decoded metadata against the schema.
func WithMetadataSchema(schema *jsonschema.Schema) Option {
	return func(a *Adapter) {
		a.schema = schema
	}
}

// NewAdapter returns an adapter for the given provider.
func NewAdapter(provider string, signer signing.Signer, opts ...Option) *Adapter {
	a := &Adapter{
		provider:    provider,
		externalKey: provider,
		signer:      signer,
		maxAge:      InstallExpiration,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Provider implements the Configurer interface.
func (a *Adapter) Provider() string {
	return a.provider
}

// ExternalProviderKey implements the Configurer interface.
func (a *Adapter) ExternalProviderKey() string {
	return a.externalKey
}

// ConfigurePath implements the Configurer interface.
func (a *Adapter) ConfigurePath() string {
	return ConfigurePath(a.provider)
}

// MapParamsToState implements the Configurer interface.
//
// Unsigned fields are merged over the incoming ones, so a signed value always
// wins a key collision. Unsigned fields are not filtered: a signed payload
// carrying a signed_params key is returned as is.
func (a *Adapter) MapParamsToState(params Params) (Params, error) {
	state := make(Params, len(params))

	for k, v := range params {
		state[k] = v
	}

	raw, ok := state[KeySignedParams]

	if !ok {
		return nil, &MissingParameterError{Key: KeySignedParams}
	}

	delete(state, KeySignedParams)

	token, ok := raw.(string)

	if !ok {
		return nil, &ExpiredOrInvalidSignatureError{
			Err: errors.Wrapf(signing.ErrBadSignature, errors.ErrorTypeAuthentication, "signed params is a %T, not a string", raw),
		}
	}

	fields, err := a.signer.Unsign(token, a.maxAge)

	if err != nil {
		return nil, &ExpiredOrInvalidSignatureError{Err: err}
	}

	for k, v := range fields {
		state[k] = v
	}

	rawMetadata, ok := state[KeyMetadata]

	if !ok {
		return nil, &MissingParameterError{Key: KeyMetadata}
	}

	metadata, err := a.parseMetadata(rawMetadata)

	if err != nil {
		return nil, err
	}

	state[KeyMetadata] = metadata
	return state, nil
}

func (a *Adapter) parseMetadata(raw any) (any, error) {
	s, ok := raw.(string)

	if !ok {
		return nil, &MalformedMetadataError{Err: fmt.Errorf("expected a JSON string, received %T", raw)}
	}

	var metadata any

	if err := json.Unmarshal([]byte(s), &metadata); err != nil {
		return nil, &MalformedMetadataError{Err: err}
	}

	if a.schema != nil {
		if err := a.schema.Validate(metadata); err != nil {
			return nil, &MalformedMetadataError{Err: err}
		}
	}

	return metadata, nil
}

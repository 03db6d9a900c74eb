// Package signing produces and verifies tamper-proof, timestamped tokens
// carrying a small map of fields.
package signing

import (
	"time"

	"github.com/relaypoint-io/relaypoint/src/lib/config"
	"github.com/relaypoint-io/relaypoint/src/lib/errors"
)

var (
	// ErrBadSignature is returned when a token cannot be decoded or its
	// signature does not match its payload.
	ErrBadSignature = errors.New(errors.ErrorTypeAuthentication, "bad signature")

	// ErrSignatureExpired is returned when a token carries a valid signature
	// but is older than the allowed maximum age.
	ErrSignatureExpired = errors.New(errors.ErrorTypeAuthentication, "signature expired")
)

// Signer signs and verifies field maps.
//
// Both implementations follow the same rules: a token issued after the
// current time is rejected with ErrBadSignature, and numbers in the returned
// fields are json.Number values so that large integers survive a round trip.
type Signer interface {
	// Sign encodes the given fields into a signed token.
	Sign(fields map[string]any) (string, error)

	// Unsign verifies the token and returns the fields it carries.
	// A maxAge of zero or less disables the age check.
	Unsign(token string, maxAge time.Duration) (map[string]any, error)
}

// Clock returns the current time.
type Clock func() time.Time

type options struct {
	clock     Clock
	salt      string
	algorithm string
}

// Option configures a signer.
type Option func(*options)

// WithClock replaces time.Now. Tests use it to simulate token age.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithSalt namespaces the signatures. Tokens signed with a different salt
// fail verification even when the secret is the same.
func WithSalt(salt string) Option {
	return func(o *options) {
		o.salt = salt
	}
}

// WithAlgorithm selects the HMAC hash of the timestamp signer: sha1 or sha256.
func WithAlgorithm(algorithm string) Option {
	return func(o *options) {
		o.algorithm = algorithm
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		clock:     time.Now,
		salt:      config.DefaultSigningSalt,
		algorithm: AlgorithmSHA1,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// New returns the signer selected by the configuration.
func New(cnf *config.SigningConfig, opts ...Option) (Signer, error) {
	if cnf == nil {
		return nil, errors.New(errors.ErrorTypeConfiguration, "signing configuration is missing")
	}

	opts = append([]Option{WithSalt(cnf.Salt), WithAlgorithm(cnf.Algorithm)}, opts...)

	switch cnf.Backend {
	case "", config.SigningBackendTimestamp:
		return NewTimestampSigner([]byte(cnf.Secret), opts...)
	case config.SigningBackendJWT:
		return NewJWTSigner([]byte(cnf.Secret), opts...)
	default:
		return nil, errors.New(errors.ErrorTypeConfiguration, "unknown signing backend").WithContext("backend", cnf.Backend)
	}
}

package signing

import (
	"crypto/sha256"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/relaypoint-io/relaypoint/src/lib/errors"
)

const claimIssuedAt = "iat"

// JWTSigner stores the fields as HS256 JWT claims. The token age is
// measured from the issued-at claim. The HMAC key is derived from the salt
// and the secret, so tokens signed under another salt do not verify.
type JWTSigner struct {
	key   []byte
	clock Clock
}

// NewJWTSigner returns a signer keyed with the given secret.
func NewJWTSigner(secret []byte, opts ...Option) (*JWTSigner, error) {
	if len(secret) == 0 {
		return nil, errors.New(errors.ErrorTypeConfiguration, "signing secret is empty")
	}

	o := newOptions(opts)

	kh := sha256.New()
	kh.Write([]byte(o.salt + "signer"))
	kh.Write(secret)

	return &JWTSigner{
		key:   kh.Sum(nil),
		clock: o.clock,
	}, nil
}

// Sign implements the Signer interface.
func (s *JWTSigner) Sign(fields map[string]any) (string, error) {
	claims := jwt.MapClaims{}

	for k, v := range fields {
		claims[k] = v
	}

	claims[claimIssuedAt] = s.clock().Unix()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)

	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "failed to sign jwt")
	}

	return token, nil
}

// Unsign implements the Signer interface.
func (s *JWTSigner) Unsign(token string, maxAge time.Duration) (map[string]any, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.clock),
		jwt.WithJSONNumber(),
	)

	if err != nil {
		return nil, errors.Wrapf(ErrBadSignature, errors.ErrorTypeAuthentication, "jwt verification failed: %s", err.Error())
	}

	iat, err := claims.GetIssuedAt()

	if err != nil || iat == nil {
		return nil, errors.Wrap(ErrBadSignature, errors.ErrorTypeAuthentication, "jwt has no issued-at claim")
	}

	if maxAge > 0 {
		if age := s.clock().Sub(iat.Time); age > maxAge {
			return nil, errors.Wrapf(ErrSignatureExpired, errors.ErrorTypeAuthentication, "signature age %s > %s", age, maxAge)
		}
	}

	fields := make(map[string]any, len(claims))

	for k, v := range claims {
		if k != claimIssuedAt {
			fields[k] = v
		}
	}

	return fields, nil
}

package signing

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"hash"
	"strings"
	"time"

	"github.com/relaypoint-io/relaypoint/src/lib/errors"
)

// Supported HMAC algorithms for the timestamp signer.
const (
	AlgorithmSHA1   = "sha1"
	AlgorithmSHA256 = "sha256"
)

const sep = ":"

// TimestampSigner signs JSON encoded fields with a salted HMAC and a base62
// timestamp. The token layout is
//
//	base64url(json ":" base62(unix) ":" base64url(hmac))
//
// with the base64 padding stripped, so that tokens are safe in URLs.
type TimestampSigner struct {
	key   []byte
	salt  string
	hash  func() hash.Hash
	clock Clock
}

// NewTimestampSigner returns a signer keyed with the given secret.
func NewTimestampSigner(secret []byte, opts ...Option) (*TimestampSigner, error) {
	if len(secret) == 0 {
		return nil, errors.New(errors.ErrorTypeConfiguration, "signing secret is empty")
	}

	o := newOptions(opts)

	var h func() hash.Hash

	switch strings.ToLower(o.algorithm) {
	case "", AlgorithmSHA1:
		h = sha1.New
	case AlgorithmSHA256:
		h = sha256.New
	default:
		return nil, errors.New(errors.ErrorTypeConfiguration, "unsupported signing algorithm").WithContext("algorithm", o.algorithm)
	}

	return &TimestampSigner{
		key:   secret,
		salt:  o.salt,
		hash:  h,
		clock: o.clock,
	}, nil
}

// Sign implements the Signer interface.
func (s *TimestampSigner) Sign(fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}

	payload, err := json.Marshal(fields)

	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode signed fields")
	}

	value := string(payload) + sep + encodeBase62(s.clock().Unix())
	signed := value + sep + s.signature(value)

	return base64.RawURLEncoding.EncodeToString([]byte(signed)), nil
}

// Unsign implements the Signer interface.
func (s *TimestampSigner) Unsign(token string, maxAge time.Duration) (map[string]any, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))

	if err != nil {
		return nil, errors.Wrap(ErrBadSignature, errors.ErrorTypeAuthentication, "token is not base64 encoded")
	}

	signed := string(raw)
	idx := strings.LastIndex(signed, sep)

	if idx == -1 {
		return nil, errors.Wrap(ErrBadSignature, errors.ErrorTypeAuthentication, "no separator found in token")
	}

	value, sig := signed[:idx], signed[idx+1:]

	if !hmac.Equal([]byte(sig), []byte(s.signature(value))) {
		return nil, errors.Wrap(ErrBadSignature, errors.ErrorTypeAuthentication, "signature does not match")
	}

	idx = strings.LastIndex(value, sep)

	if idx == -1 {
		return nil, errors.Wrap(ErrBadSignature, errors.ErrorTypeAuthentication, "no timestamp found in token")
	}

	payload, ts := value[:idx], value[idx+1:]
	unix, err := decodeBase62(ts)

	if err != nil {
		return nil, errors.Wrap(ErrBadSignature, errors.ErrorTypeAuthentication, "timestamp is not base62 encoded")
	}

	age := s.clock().Sub(time.Unix(unix, 0))

	if age < 0 {
		return nil, errors.Wrapf(ErrBadSignature, errors.ErrorTypeAuthentication, "token is issued %s in the future", -age)
	}

	if maxAge > 0 && age > maxAge {
		return nil, errors.Wrapf(ErrSignatureExpired, errors.ErrorTypeAuthentication, "signature age %s > %s", age, maxAge)
	}

	fields := map[string]any{}
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()

	if err := dec.Decode(&fields); err != nil {
		return nil, errors.Wrap(ErrBadSignature, errors.ErrorTypeAuthentication, "signed payload is not a JSON object")
	}

	return fields, nil
}

// signature computes base64url(HMAC(H(salt + "signer" + secret), value)).
func (s *TimestampSigner) signature(value string) string {
	kh := s.hash()
	kh.Write([]byte(s.salt + "signer"))
	kh.Write(s.key)

	mac := hmac.New(s.hash, kh.Sum(nil))
	mac.Write([]byte(value))

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

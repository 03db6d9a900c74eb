package extension

import (
	stderrors "errors"
	"fmt"

	"github.com/relaypoint-io/relaypoint/src/lib/errors"
	"github.com/relaypoint-io/relaypoint/src/lib/signing"
)

// MissingParameterError is returned when a required parameter is absent.
type MissingParameterError struct {
	Key string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Key)
}

func (e *MissingParameterError) Unwrap() error {
	return errors.ErrMissingRequired
}

// ExpiredOrInvalidSignatureError is returned when the signed parameters are
// older than the installation expiration or fail verification.
type ExpiredOrInvalidSignatureError struct {
	Err error
}

func (e *ExpiredOrInvalidSignatureError) Error() string {
	if e.Expired() {
		return fmt.Sprintf("signed parameters expired: %v", e.Err)
	}

	return fmt.Sprintf("signed parameters are invalid: %v", e.Err)
}

func (e *ExpiredOrInvalidSignatureError) Unwrap() error {
	return e.Err
}

// Expired tells whether the signature was valid but too old.
func (e *ExpiredOrInvalidSignatureError) Expired() bool {
	return stderrors.Is(e.Err, signing.ErrSignatureExpired)
}

// MalformedMetadataError is returned when the metadata cannot be decoded.
type MalformedMetadataError struct {
	Err error
}

func (e *MalformedMetadataError) Error() string {
	return fmt.Sprintf("malformed metadata: %v", e.Err)
}

func (e *MalformedMetadataError) Unwrap() []error {
	return []error{errors.ErrInvalidFormat, e.Err}
}

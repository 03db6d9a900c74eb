package signing

import (
	"strings"

	"github.com/relaypoint-io/relaypoint/src/lib/errors"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func encodeBase62(n int64) string {
	if n == 0 {
		return "0"
	}

	sign := ""

	if n < 0 {
		sign = "-"
		n = -n
	}

	var b []byte

	for n > 0 {
		b = append(b, base62Alphabet[n%62])
		n /= 62
	}

	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}

	return sign + string(b)
}

func decodeBase62(s string) (int64, error) {
	sign := int64(1)

	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	}

	// 11 base62 digits overflow int64.
	if s == "" || len(s) > 10 {
		return 0, errors.New(errors.ErrorTypeValidation, "invalid base62 value").WithContext("value", s)
	}

	var n int64

	for _, c := range s {
		idx := strings.IndexRune(base62Alphabet, c)

		if idx == -1 {
			return 0, errors.New(errors.ErrorTypeValidation, "invalid base62 digit").WithContext("digit", string(c))
		}

		n = n*62 + int64(idx)
	}

	return sign * n, nil
}

package cryptox

import "errors"

// Hasher is a one-way hash for low-entropy secrets such as passwords and
// one-time codes. Verify must compare in constant time.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) error
}

var (
	ErrMismatch      = errors.New("cryptox: secret does not match")
	ErrMalformedHash = errors.New("cryptox: malformed hash")
)

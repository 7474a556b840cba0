package cryptox

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// OTPDigits is the length of emailed one-time codes.
const OTPDigits = 6

// GenerateNumericCode returns a uniformly distributed numeric code of the
// given length. It runs HOTP over a throwaway random secret and counter,
// which yields the same dynamic truncation used by authenticator apps.
func GenerateNumericCode(digits int) (string, error) {
	if digits < 6 || digits > 8 {
		return "", fmt.Errorf("cryptox: unsupported code length %d", digits)
	}

	var seed [28]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return "", fmt.Errorf("cryptox: read random: %w", err)
	}

	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(seed[:20])
	counter := binary.BigEndian.Uint64(seed[20:])

	code, err := hotp.GenerateCodeCustom(secret, counter, hotp.ValidateOpts{
		Digits:    otp.Digits(digits),
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("cryptox: generate code: %w", err)
	}
	return code, nil
}

package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// pemTypePKCS8 is the block type written for session signing keys.
const pemTypePKCS8 = "PRIVATE KEY"

// GenerateEd25519Key returns a fresh Ed25519 signing key as a PKCS8 PEM
// block, ready to be written to SESSION_KEY_FILE.
func GenerateEd25519Key() ([]byte, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: ed25519 keygen: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: encode ed25519 key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePKCS8, Bytes: der}), nil
}

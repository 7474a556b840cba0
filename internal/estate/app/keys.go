package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/estate/pkg/cryptox"
	"github.com/aussiebroadwan/estate/pkg/jwtx"
)

// sessionSecretSize is the HS256 secret length in bytes.
const sessionSecretSize = 32

// InitSessionKeys loads the session signing key, creating it on first start,
// and returns the matching signer and verifier.
//
// Supported algorithms:
//   - "HS256": a server-held secret in SessionSecretFile.
//   - "EdDSA": an Ed25519 PKCS8 PEM in SessionKeyFile.
//
// The key is persisted so restarts keep issued sessions valid.
func InitSessionKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, jwtx.Verifier, error) {
	switch cfg.SessionAlgorithm {
	case "EdDSA":
		pemKey, err := loadOrGenerateEd25519(cfg.SessionKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load session key: %w", err)
		}
		kid := keyID(pemKey)
		signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("session signing key loaded", "algorithm", signer.Alg(), "kid", kid, "issuer", cfg.Issuer)
		return signer, signer.(*jwtx.EdDSASigner).Verifier(cfg.Issuer), nil

	default:
		secret, err := cryptox.LoadOrGenerateSecret(cfg.SessionSecretFile, sessionSecretSize)
		if err != nil {
			return nil, nil, fmt.Errorf("load session secret: %w", err)
		}
		kid := keyID(secret)
		signer, err := jwtx.NewSignerHS256(kid, secret)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("session signing key loaded", "algorithm", signer.Alg(), "kid", kid, "issuer", cfg.Issuer)
		return signer, signer.(*jwtx.HS256Signer).Verifier(cfg.Issuer), nil
	}
}

// keyID derives a stable, non-secret identifier from key material.
func keyID(material []byte) string {
	return cryptox.FingerprintToken(string(material))[:12]
}

func loadOrGenerateEd25519(path string) ([]byte, error) {
	path = filepath.Clean(path)

	pemKey, err := os.ReadFile(path)
	if err == nil {
		return pemKey, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	pemKey, err = cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, pemKey, 0600); err != nil {
		return nil, err
	}
	return pemKey, nil
}

package service

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"os"

	"gocloud.dev/secrets"

	apperrors "github.com/farmapp/licensing/internal/errors"

	// Register KMS provider drivers for encrypted signing keys.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// SigningKeys holds the loaded ECDSA keypair. PrivateKey is nil when only a
// public key is available (verify-only deployments).
type SigningKeys struct {
	PrivateKey *ecdsa.PrivateKey
	PublicKey  *ecdsa.PublicKey
}

// LoadSigningKeys reads the ECDSA signing keypair from PEM files.
//
// When kmsKeyURI is non-empty the private key file is expected to contain
// keeper-encrypted ciphertext (gocloud.dev/secrets); it is decrypted before
// PEM parsing. Supported URIs: gcpkms://, awskms://, azurekeyvault://,
// hashivault://, base64key://.
//
// publicKeyPath may be empty, in which case the public key is derived from
// the private key.
func LoadSigningKeys(ctx context.Context, privateKeyPath, publicKeyPath, kmsKeyURI string) (*SigningKeys, error) {
	pemBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read private key file")
	}

	if kmsKeyURI != "" {
		pemBytes, err = decryptWithKeeper(ctx, kmsKeyURI, pemBytes)
		if err != nil {
			return nil, err
		}
	}

	privateKey, err := parseECPrivateKey(pemBytes)
	if err != nil {
		return nil, err
	}

	keys := &SigningKeys{
		PrivateKey: privateKey,
		PublicKey:  &privateKey.PublicKey,
	}

	if publicKeyPath != "" && publicKeyPath != privateKeyPath {
		pubBytes, err := os.ReadFile(publicKeyPath)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to read public key file")
		}
		publicKey, err := ParseECPublicKey(pubBytes)
		if err != nil {
			return nil, err
		}
		keys.PublicKey = publicKey
	}

	return keys, nil
}

// decryptWithKeeper decrypts ciphertext using the configured KMS keeper.
func decryptWithKeeper(ctx context.Context, keyURI string, ciphertext []byte) ([]byte, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open KMS keeper")
	}
	defer func() { _ = keeper.Close() }()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt signing key")
	}
	return plaintext, nil
}

// parseECPrivateKey parses a PEM-encoded ECDSA private key in SEC1 or PKCS#8 form.
func parseECPrivateKey(pemBytes []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, apperrors.New("private key file does not contain a PEM block")
	}

	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse private key")
	}

	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, apperrors.New("private key is not an ECDSA key")
	}
	return key, nil
}

// ParseECPublicKey parses a PEM-encoded ECDSA public key in PKIX form.
func ParseECPublicKey(pemBytes []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, apperrors.New("public key file does not contain a PEM block")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse public key")
	}

	key, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, apperrors.New("public key is not an ECDSA key")
	}
	return key, nil
}

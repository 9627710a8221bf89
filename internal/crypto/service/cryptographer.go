package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/keywhiz/internal/crypto/domain"
)

const (
	// nonceSize is the AES-GCM nonce length in bytes.
	nonceSize = 12
	// tagSize is the AES-GCM authentication tag length in bytes.
	tagSize = 16
	// derivationInfo is the HKDF info label for content keys.
	derivationInfo = "content"
	// envelopeDelimiter separates the base64 payload from the key id.
	envelopeDelimiter = "."
)

// contentCryptographer implements Cryptographer over a root content keychain.
//
// Envelope format: base64(nonce || ciphertext || tag) "." keyID. The key id
// selects the root key the envelope was sealed under, permitting root key
// rotation without re-encrypting stored content.
type contentCryptographer struct {
	chain *cryptoDomain.ContentKeyChain
}

// NewCryptographer creates a Cryptographer backed by the given keychain.
func NewCryptographer(chain *cryptoDomain.ContentKeyChain) Cryptographer {
	return &contentCryptographer{chain: chain}
}

// deriveContentKey derives the per-secret 32-byte key:
//
//	HKDF-SHA256(rootKey, salt=secretName, info="content")
//
// Using the name as salt ties the key to the series identity: renaming a
// series invalidates its ciphertexts, so rename must be delete + recreate.
func (c *contentCryptographer) deriveContentKey(root *cryptoDomain.ContentKey, secretName string) ([]byte, error) {
	reader := hkdf.New(sha256.New, root.Key, []byte(secretName), []byte(derivationInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive content key: %w", err)
	}
	return key, nil
}

// newGCM builds an AES-256-GCM cipher over the derived key.
func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

// Encrypt seals plaintext with the secret's derived key, binding the secret
// name as associated data.
func (c *contentCryptographer) Encrypt(secretName string, plaintext []byte) (string, error) {
	root, ok := c.chain.Get(c.chain.ActiveKeyID())
	if !ok {
		return "", cryptoDomain.ErrContentKeyNotFound
	}

	key, err := c.deriveContentKey(root, secretName)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends ciphertext||tag to the nonce, yielding nonce||ct||tag.
	sealed := aead.Seal(nonce, nonce, plaintext, []byte(secretName))

	return base64.StdEncoding.EncodeToString(sealed) + envelopeDelimiter + root.ID, nil
}

// Decrypt opens an envelope for the named secret. Any authentication failure
// is reported as an integrity error; it is never a client mistake.
func (c *contentCryptographer) Decrypt(secretName, envelope string) ([]byte, error) {
	payload, keyID, err := splitEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	root, ok := c.chain.Get(keyID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrContentKeyNotFound, keyID)
	}

	sealed, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, cryptoDomain.ErrMalformedEnvelope
	}
	if len(sealed) < nonceSize+tagSize {
		return nil, cryptoDomain.ErrMalformedEnvelope
	}

	key, err := c.deriveContentKey(root, secretName)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], []byte(secretName))
	if err != nil {
		return nil, cryptoDomain.ErrIntegrityCheckFailed
	}
	return plaintext, nil
}

// DecodedLength computes the plaintext length from the envelope's fixed
// overhead, without touching key material.
func (c *contentCryptographer) DecodedLength(envelope string) (int, error) {
	payload, _, err := splitEnvelope(envelope)
	if err != nil {
		return 0, err
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return 0, cryptoDomain.ErrMalformedEnvelope
	}
	if len(decoded) < nonceSize+tagSize {
		return 0, cryptoDomain.ErrMalformedEnvelope
	}
	return len(decoded) - nonceSize - tagSize, nil
}

// ActiveKeyID returns the key id stamped into new envelopes.
func (c *contentCryptographer) ActiveKeyID() string {
	return c.chain.ActiveKeyID()
}

// splitEnvelope splits "payload.keyID" on the last delimiter.
func splitEnvelope(envelope string) (payload, keyID string, err error) {
	idx := strings.LastIndex(envelope, envelopeDelimiter)
	if idx <= 0 || idx == len(envelope)-1 {
		return "", "", cryptoDomain.ErrMalformedEnvelope
	}
	return envelope[:idx], envelope[idx+1:], nil
}

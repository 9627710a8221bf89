package domain

import (
	"github.com/allisson/keywhiz/internal/errors"
)

// Cryptographic operation error definitions.
var (
	// ErrContentKeysNotSet indicates the CONTENT_KEYS environment variable is missing.
	ErrContentKeysNotSet = errors.New("CONTENT_KEYS environment variable is not set")

	// ErrActiveContentKeyIDNotSet indicates ACTIVE_CONTENT_KEY_ID is missing.
	ErrActiveContentKeyIDNotSet = errors.New("ACTIVE_CONTENT_KEY_ID environment variable is not set")

	// ErrInvalidContentKeysFormat indicates a CONTENT_KEYS entry is not "id:base64key".
	ErrInvalidContentKeysFormat = errors.New("invalid CONTENT_KEYS format, expected id:base64key")

	// ErrInvalidContentKeyBase64 indicates base64 decoding of a content key failed.
	ErrInvalidContentKeyBase64 = errors.New("invalid base64 in content key")

	// ErrInvalidKeyID indicates a key identifier is empty, too long, or not printable ASCII.
	ErrInvalidKeyID = errors.Wrap(errors.ErrInvalidInput, "invalid content key id")

	// ErrInvalidKeySize indicates a root content key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrActiveContentKeyNotFound indicates ACTIVE_CONTENT_KEY_ID names a key
	// that is not present in the keychain.
	ErrActiveContentKeyNotFound = errors.New("active content key not found in keychain")

	// ErrContentKeyNotFound indicates an envelope references a key id that is
	// not installed in this process. Without the key the envelope cannot be
	// authenticated, so this is surfaced as an integrity failure.
	ErrContentKeyNotFound = errors.Wrap(errors.ErrCryptoIntegrity, "content key not found")

	// ErrIntegrityCheckFailed indicates AEAD authentication failed: the tag did
	// not verify or the associated data (the owning secret's name) did not match.
	ErrIntegrityCheckFailed = errors.Wrap(errors.ErrCryptoIntegrity, "integrity check failed")

	// ErrMalformedEnvelope indicates a stored envelope does not have the
	// base64(nonce||ciphertext||tag) "." keyID shape.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrCryptoIntegrity, "malformed ciphertext envelope")
)

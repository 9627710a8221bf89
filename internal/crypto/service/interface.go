// Package service provides cryptographic services for secret content encryption.
// Content is protected with AES-256-GCM under per-secret keys derived from a
// root content key via HKDF-SHA256.
package service

// Cryptographer encrypts and decrypts secret content.
//
// Each secret gets its own content key, derived deterministically from the
// root key with the secret's name as the HKDF salt. The name is also bound
// into the ciphertext as AEAD associated data, so an envelope copied from one
// secret's row into another's fails authentication instead of decrypting.
type Cryptographer interface {
	// Encrypt seals plaintext for the named secret under the active root key
	// and returns the envelope string stored in place of the ciphertext.
	Encrypt(secretName string, plaintext []byte) (string, error)

	// Decrypt opens an envelope for the named secret. It fails with an error
	// matching errors.ErrCryptoIntegrity when the tag does not verify, the
	// name does not match the one the envelope was sealed for, or the
	// envelope references an unknown key id.
	Decrypt(secretName, envelope string) ([]byte, error)

	// DecodedLength reports the plaintext length of an envelope without
	// decrypting it, using the envelope's known nonce and tag overhead.
	DecodedLength(envelope string) (int, error)

	// ActiveKeyID returns the key id recorded in newly produced envelopes.
	ActiveKeyID() string
}

// Package domain defines the core domain models for secret storage.
//
// A secret is split across two entities: SecretSeries carries the stable
// identity of a named secret (name, description, metadata) and SecretContent
// carries one immutable encrypted revision of it. A Secret is the read-model
// join of one series with one content row; its plaintext exists only
// transiently inside a single request.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// SecretSeries is the identity of a named secret over time. It is created on
// the first write for a name and destroyed only by an explicit series delete,
// which cascades to all content rows.
type SecretSeries struct {
	ID                int64
	Name              string
	Description       string
	CreatedAt         time.Time
	CreatedBy         string
	UpdatedAt         time.Time
	UpdatedBy         string
	Type              string
	GenerationOptions map[string]string
	Metadata          map[string]string
}

// SecretContent is one immutable revision of a series. EncryptedContent holds
// the ciphertext envelope; Version may be empty, denoting the unversioned
// revision. (SeriesID, Version) is unique, the empty version included.
type SecretContent struct {
	ID               int64
	SeriesID         int64
	EncryptedContent string
	Version          string
	CreatedAt        time.Time
	CreatedBy        string
	UpdatedAt        time.Time
	UpdatedBy        string
}

// DecryptFunc opens the envelope of the named secret.
type DecryptFunc func(secretName, envelope string) ([]byte, error)

// Secret joins one series with one content revision. Decryption is lazy: the
// ciphertext travels with the Secret until Plaintext is called, which invokes
// the cryptographer once and caches the result for the life of the value.
type Secret struct {
	Series  SecretSeries
	Content SecretContent

	decrypt   DecryptFunc
	once      sync.Once
	plaintext []byte
	err       error
}

// NewSecret builds the read-model join with the decryption hook used when the
// plaintext is first requested.
func NewSecret(series SecretSeries, content SecretContent, decrypt DecryptFunc) *Secret {
	return &Secret{Series: series, Content: content, decrypt: decrypt}
}

// Plaintext decrypts and returns the secret's content. The cryptographer is
// invoked at most once; subsequent calls return the cached result.
func (s *Secret) Plaintext() ([]byte, error) {
	s.once.Do(func() {
		if s.decrypt == nil {
			return
		}
		s.plaintext, s.err = s.decrypt(s.Series.Name, s.Content.EncryptedContent)
	})
	return s.plaintext, s.err
}

// Checksum returns the hex SHA-256 digest of the given plaintext, as exposed
// on the JSON surface of fully resolved secrets.
func Checksum(plaintext []byte) string {
	sum := sha256.Sum256(plaintext)
	return hex.EncodeToString(sum[:])
}

// Package domain defines cryptographic domain models for content encryption.
//
// Secret content is protected by AEAD envelopes whose keys are derived per
// secret from a long-lived 32-byte root content key. Multiple root keys can be
// installed simultaneously to support rotation: envelopes carry a short key id
// selecting the root key they were produced under, and new envelopes are
// written under the active key.
package domain

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ContentKey is a root key for content encryption. The ID is a short printable
// ASCII identifier (at most 16 characters) recorded in every envelope produced
// under this key; the Key is the raw 32-byte key material.
type ContentKey struct {
	ID  string
	Key []byte
}

// ContentKeyChain manages a collection of root content keys with one
// designated as active. Old keys remain available to decrypt existing
// envelopes while new envelopes are produced under the active key.
//
// Thread safety: the chain uses sync.Map internally for concurrent access.
type ContentKeyChain struct {
	activeID string
	keys     sync.Map
}

// NewContentKeyChain builds a chain from the given keys with activeID selected
// for new envelopes. Every key must be exactly 32 bytes with a valid id. Key
// material is copied, so callers may zero their buffers afterwards.
func NewContentKeyChain(activeID string, keys []*ContentKey) (*ContentKeyChain, error) {
	chain := &ContentKeyChain{activeID: activeID}
	for _, key := range keys {
		if err := validateKeyID(key.ID); err != nil {
			chain.Close()
			return nil, err
		}
		if len(key.Key) != 32 {
			chain.Close()
			return nil, fmt.Errorf("%w: content key %s must be 32 bytes, got %d", ErrInvalidKeySize, key.ID, len(key.Key))
		}
		material := make([]byte, len(key.Key))
		copy(material, key.Key)
		chain.keys.Store(key.ID, &ContentKey{ID: key.ID, Key: material})
	}
	if _, ok := chain.Get(activeID); !ok {
		chain.Close()
		return nil, fmt.Errorf("%w: %s", ErrActiveContentKeyNotFound, activeID)
	}
	return chain, nil
}

// ActiveKeyID returns the id of the key used for encrypting new content.
func (c *ContentKeyChain) ActiveKeyID() string {
	return c.activeID
}

// Get retrieves a content key from the chain by its id.
func (c *ContentKeyChain) Get(id string) (*ContentKey, bool) {
	if key, ok := c.keys.Load(id); ok {
		return key.(*ContentKey), ok
	}
	return nil, false
}

// Close zeroes all key material and resets the chain. Call during shutdown or
// when a load fails partway through.
func (c *ContentKeyChain) Close() {
	c.keys.Range(func(_, value any) bool {
		Zero(value.(*ContentKey).Key)
		return true
	})
	c.activeID = ""
	c.keys.Clear()
}

// LoadContentKeyChainFromEnv loads root content keys from environment variables.
//
// CONTENT_KEYS is a comma-separated list of "id:base64key" entries, each key
// exactly 32 bytes once decoded. ACTIVE_CONTENT_KEY_ID selects the key used
// for new envelopes. Example:
//
//	CONTENT_KEYS="kid1:aGVsbG8...,kid2:d29ybGQ..."
//	ACTIVE_CONTENT_KEY_ID="kid2"
//
// Temporary decoded buffers are zeroed; on error the chain is closed so no
// partially initialized keychain escapes.
func LoadContentKeyChainFromEnv() (*ContentKeyChain, error) {
	raw := os.Getenv("CONTENT_KEYS")
	if raw == "" {
		return nil, ErrContentKeysNotSet
	}

	active := os.Getenv("ACTIVE_CONTENT_KEY_ID")
	if active == "" {
		return nil, ErrActiveContentKeyIDNotSet
	}

	var keys []*ContentKey
	for part := range strings.SplitSeq(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidContentKeysFormat, part)
		}
		id := p[0]
		key, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidContentKeyBase64, id, err)
		}
		keys = append(keys, &ContentKey{ID: id, Key: key})
	}

	chain, err := NewContentKeyChain(active, keys)
	for _, key := range keys {
		Zero(key.Key)
	}
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// validateKeyID enforces the on-wire key id constraint: non-empty, at most 16
// printable ASCII characters, unique per root key ever installed.
func validateKeyID(id string) error {
	if id == "" || len(id) > 16 {
		return fmt.Errorf("%w: %q", ErrInvalidKeyID, id)
	}
	for _, r := range id {
		if r < '!' || r > '~' {
			return fmt.Errorf("%w: %q", ErrInvalidKeyID, id)
		}
	}
	return nil
}

package service

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/keywhiz/internal/crypto/domain"
	apperrors "github.com/allisson/keywhiz/internal/errors"
)

func newTestChain(t *testing.T, activeID string, ids ...string) *cryptoDomain.ContentKeyChain {
	t.Helper()
	keys := make([]*cryptoDomain.ContentKey, 0, len(ids))
	for i, id := range ids {
		key := make([]byte, 32)
		for j := range key {
			key[j] = byte(i + j)
		}
		keys = append(keys, &cryptoDomain.ContentKey{ID: id, Key: key})
	}
	chain, err := cryptoDomain.NewContentKeyChain(activeID, keys)
	require.NoError(t, err)
	t.Cleanup(chain.Close)
	return chain
}

func TestCryptographer_RoundTrip(t *testing.T) {
	crypto := NewCryptographer(newTestChain(t, "kid1", "kid1"))

	plaintext := []byte("hunter2")
	envelope, err := crypto.Encrypt("DB_Pass", plaintext)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(envelope, ".kid1"))

	decrypted, err := crypto.Decrypt("DB_Pass", envelope)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestCryptographer_EmptyPlaintext(t *testing.T) {
	crypto := NewCryptographer(newTestChain(t, "kid1", "kid1"))

	envelope, err := crypto.Encrypt("empty", nil)
	require.NoError(t, err)

	decrypted, err := crypto.Decrypt("empty", envelope)
	require.NoError(t, err)
	assert.Empty(t, decrypted)

	length, err := crypto.DecodedLength(envelope)
	require.NoError(t, err)
	assert.Equal(t, 0, length)
}

func TestCryptographer_NameBinding(t *testing.T) {
	crypto := NewCryptographer(newTestChain(t, "kid1", "kid1"))

	// Ciphertext sealed for series A must not open for series B.
	envelope, err := crypto.Encrypt("series-a", []byte("payload"))
	require.NoError(t, err)

	_, err = crypto.Decrypt("series-b", envelope)
	assert.ErrorIs(t, err, apperrors.ErrCryptoIntegrity)
}

func TestCryptographer_TamperedEnvelope(t *testing.T) {
	crypto := NewCryptographer(newTestChain(t, "kid1", "kid1"))

	envelope, err := crypto.Encrypt("name", []byte("payload"))
	require.NoError(t, err)

	payload := envelope[:strings.LastIndex(envelope, ".")]
	sealed, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	tampered := base64.StdEncoding.EncodeToString(sealed) + ".kid1"
	_, err = crypto.Decrypt("name", tampered)
	assert.ErrorIs(t, err, apperrors.ErrCryptoIntegrity)
}

func TestCryptographer_UnknownKeyID(t *testing.T) {
	crypto := NewCryptographer(newTestChain(t, "kid1", "kid1"))

	envelope, err := crypto.Encrypt("name", []byte("payload"))
	require.NoError(t, err)

	other := strings.TrimSuffix(envelope, "kid1") + "ghost"
	_, err = crypto.Decrypt("name", other)
	assert.ErrorIs(t, err, cryptoDomain.ErrContentKeyNotFound)
	assert.ErrorIs(t, err, apperrors.ErrCryptoIntegrity)
}

func TestCryptographer_KeyRotation(t *testing.T) {
	// Envelopes sealed under an older root key stay decryptable after the
	// active key moves on.
	oldChain := newTestChain(t, "old", "old")
	oldCrypto := NewCryptographer(oldChain)

	envelope, err := oldCrypto.Encrypt("name", []byte("payload"))
	require.NoError(t, err)

	bothChain := newTestChain(t, "new", "old", "new")
	crypto := NewCryptographer(bothChain)
	assert.Equal(t, "new", crypto.ActiveKeyID())

	decrypted, err := crypto.Decrypt("name", envelope)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), decrypted)

	fresh, err := crypto.Encrypt("name", []byte("payload"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(fresh, ".new"))
}

func TestCryptographer_DecodedLength(t *testing.T) {
	crypto := NewCryptographer(newTestChain(t, "kid1", "kid1"))

	envelope, err := crypto.Encrypt("name", []byte("hunter2"))
	require.NoError(t, err)

	length, err := crypto.DecodedLength(envelope)
	require.NoError(t, err)
	assert.Equal(t, 7, length)
}

func TestCryptographer_MalformedEnvelope(t *testing.T) {
	crypto := NewCryptographer(newTestChain(t, "kid1", "kid1"))

	cases := []string{
		"",
		"nodelimiter",
		".kid1",
		"payload.",
		"!!!notbase64!!!.kid1",
		base64.StdEncoding.EncodeToString([]byte("tiny")) + ".kid1",
	}
	for _, envelope := range cases {
		_, err := crypto.Decrypt("name", envelope)
		assert.ErrorIs(t, err, apperrors.ErrCryptoIntegrity, "envelope %q", envelope)

		_, err = crypto.DecodedLength(envelope)
		assert.Error(t, err, "envelope %q", envelope)
	}
}

func TestCryptographer_DeterministicDerivationDifferentCiphertext(t *testing.T) {
	// Same name and plaintext still produce distinct envelopes (random nonce).
	crypto := NewCryptographer(newTestChain(t, "kid1", "kid1"))

	first, err := crypto.Encrypt("name", []byte("payload"))
	require.NoError(t, err)
	second, err := crypto.Encrypt("name", []byte("payload"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

package domain

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(id string) *ContentKey {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return &ContentKey{ID: id, Key: key}
}

func TestNewContentKeyChain(t *testing.T) {
	t.Run("valid chain", func(t *testing.T) {
		chain, err := NewContentKeyChain("k2", []*ContentKey{testKey("k1"), testKey("k2")})
		require.NoError(t, err)
		defer chain.Close()

		assert.Equal(t, "k2", chain.ActiveKeyID())

		key, ok := chain.Get("k1")
		require.True(t, ok)
		assert.Len(t, key.Key, 32)

		_, ok = chain.Get("missing")
		assert.False(t, ok)
	})

	t.Run("copies key material", func(t *testing.T) {
		source := testKey("k1")
		chain, err := NewContentKeyChain("k1", []*ContentKey{source})
		require.NoError(t, err)
		defer chain.Close()

		Zero(source.Key)
		key, ok := chain.Get("k1")
		require.True(t, ok)
		assert.NotEqual(t, make([]byte, 32), key.Key)
	})

	t.Run("rejects wrong key size", func(t *testing.T) {
		_, err := NewContentKeyChain("k1", []*ContentKey{{ID: "k1", Key: []byte("short")}})
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})

	t.Run("rejects invalid key id", func(t *testing.T) {
		long := testKey("this-key-id-is-much-too-long")
		_, err := NewContentKeyChain(long.ID, []*ContentKey{long})
		assert.ErrorIs(t, err, ErrInvalidKeyID)

		spaced := testKey("has space")
		_, err = NewContentKeyChain(spaced.ID, []*ContentKey{spaced})
		assert.ErrorIs(t, err, ErrInvalidKeyID)
	})

	t.Run("rejects missing active key", func(t *testing.T) {
		_, err := NewContentKeyChain("other", []*ContentKey{testKey("k1")})
		assert.ErrorIs(t, err, ErrActiveContentKeyNotFound)
	})
}

func TestLoadContentKeyChainFromEnv(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(testKey("x").Key)

	t.Run("loads keys", func(t *testing.T) {
		t.Setenv("CONTENT_KEYS", "k1:"+encoded+",k2:"+encoded)
		t.Setenv("ACTIVE_CONTENT_KEY_ID", "k1")

		chain, err := LoadContentKeyChainFromEnv()
		require.NoError(t, err)
		defer chain.Close()

		assert.Equal(t, "k1", chain.ActiveKeyID())
		_, ok := chain.Get("k2")
		assert.True(t, ok)
	})

	t.Run("missing CONTENT_KEYS", func(t *testing.T) {
		t.Setenv("CONTENT_KEYS", "")
		t.Setenv("ACTIVE_CONTENT_KEY_ID", "k1")

		_, err := LoadContentKeyChainFromEnv()
		assert.ErrorIs(t, err, ErrContentKeysNotSet)
	})

	t.Run("missing ACTIVE_CONTENT_KEY_ID", func(t *testing.T) {
		t.Setenv("CONTENT_KEYS", "k1:"+encoded)
		t.Setenv("ACTIVE_CONTENT_KEY_ID", "")

		_, err := LoadContentKeyChainFromEnv()
		assert.ErrorIs(t, err, ErrActiveContentKeyIDNotSet)
	})

	t.Run("malformed entry", func(t *testing.T) {
		t.Setenv("CONTENT_KEYS", "justakeywithnocolon")
		t.Setenv("ACTIVE_CONTENT_KEY_ID", "k1")

		_, err := LoadContentKeyChainFromEnv()
		assert.ErrorIs(t, err, ErrInvalidContentKeysFormat)
	})

	t.Run("bad base64", func(t *testing.T) {
		t.Setenv("CONTENT_KEYS", "k1:!!!notbase64!!!")
		t.Setenv("ACTIVE_CONTENT_KEY_ID", "k1")

		_, err := LoadContentKeyChainFromEnv()
		assert.ErrorIs(t, err, ErrInvalidContentKeyBase64)
	})
}

func TestZero(t *testing.T) {
	buf := []byte{1, 2, 3}
	Zero(buf)
	assert.Equal(t, []byte{0, 0, 0}, buf)
	Zero(nil) // must not panic
}

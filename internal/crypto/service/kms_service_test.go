package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/keywhiz/internal/crypto/domain"
)

// fakeKeeper "unwraps" by XORing every byte with a constant.
type fakeKeeper struct {
	closed bool
}

func (f *fakeKeeper) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	out := make([]byte, len(ciphertext))
	for i, b := range ciphertext {
		out[i] = b ^ 0x5a
	}
	return out, nil
}

func (f *fakeKeeper) Close() error {
	f.closed = true
	return nil
}

type fakeKMSService struct {
	keeper *fakeKeeper
}

func (f *fakeKMSService) OpenKeeper(context.Context, string) (cryptoDomain.KMSKeeper, error) {
	return f.keeper, nil
}

func TestLoadContentKeyChainFromKMS(t *testing.T) {
	ctx := context.Background()

	plain := make([]byte, 32)
	wrapped := make([]byte, 32)
	for i := range plain {
		plain[i] = byte(i)
		wrapped[i] = plain[i] ^ 0x5a
	}
	encoded := base64.StdEncoding.EncodeToString(wrapped)

	t.Run("unwraps keys through the keeper", func(t *testing.T) {
		t.Setenv("CONTENT_KEYS", "k1:"+encoded)
		t.Setenv("ACTIVE_CONTENT_KEY_ID", "k1")

		kms := &fakeKMSService{keeper: &fakeKeeper{}}
		chain, err := LoadContentKeyChainFromKMS(ctx, kms, "base64key://unused")
		require.NoError(t, err)
		defer chain.Close()

		key, ok := chain.Get("k1")
		require.True(t, ok)
		assert.Equal(t, plain, key.Key)
		assert.True(t, kms.keeper.closed)
	})

	t.Run("missing env vars", func(t *testing.T) {
		t.Setenv("CONTENT_KEYS", "")
		_, err := LoadContentKeyChainFromKMS(ctx, &fakeKMSService{keeper: &fakeKeeper{}}, "uri")
		assert.ErrorIs(t, err, cryptoDomain.ErrContentKeysNotSet)
	})

	t.Run("malformed entry", func(t *testing.T) {
		t.Setenv("CONTENT_KEYS", "nocolon")
		t.Setenv("ACTIVE_CONTENT_KEY_ID", "k1")
		_, err := LoadContentKeyChainFromKMS(ctx, &fakeKMSService{keeper: &fakeKeeper{}}, "uri")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidContentKeysFormat)
	})
}

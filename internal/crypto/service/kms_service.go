package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/keywhiz/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens keepers for unwrapping KMS-wrapped root content keys.
type KMSService interface {
	// OpenKeeper opens a secrets.Keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// LoadContentKeyChainFromKMS loads the root content keychain from the
// CONTENT_KEYS / ACTIVE_CONTENT_KEY_ID environment variables where each entry
// is "id:base64(wrappedKey)" and the key material is unwrapped through the
// KMS keeper at keyURI. Unwrapped buffers are zeroed once copied into the chain.
func LoadContentKeyChainFromKMS(
	ctx context.Context,
	kms KMSService,
	keyURI string,
) (*cryptoDomain.ContentKeyChain, error) {
	raw := os.Getenv("CONTENT_KEYS")
	if raw == "" {
		return nil, cryptoDomain.ErrContentKeysNotSet
	}

	active := os.Getenv("ACTIVE_CONTENT_KEY_ID")
	if active == "" {
		return nil, cryptoDomain.ErrActiveContentKeyIDNotSet
	}

	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer keeper.Close()

	var keys []*cryptoDomain.ContentKey
	defer func() {
		for _, key := range keys {
			cryptoDomain.Zero(key.Key)
		}
	}()

	for part := range strings.SplitSeq(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrInvalidContentKeysFormat, part)
		}
		id := p[0]
		wrapped, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", cryptoDomain.ErrInvalidContentKeyBase64, id, err)
		}
		material, err := keeper.Decrypt(ctx, wrapped)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap content key %s: %w", id, err)
		}
		keys = append(keys, &cryptoDomain.ContentKey{ID: id, Key: material})
	}

	return cryptoDomain.NewContentKeyChain(active, keys)
}

package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/keywhiz/internal/crypto/domain"
	cryptoService "github.com/allisson/keywhiz/internal/crypto/service"
)

// RunCreateContentKey generates a 32-byte root content key and prints the
// environment configuration for it. When keyID is empty a random 8-character
// id is generated; key ids are limited to 16 printable ASCII characters since
// they are embedded in every envelope.
//
// With kmsKeyURI set, the key material is wrapped through the KMS keeper
// before output so the plaintext key never reaches the environment. Without
// it, the key is printed base64-encoded (development only).
func RunCreateContentKey(ctx context.Context, keyID, kmsKeyURI string, io IOTuple) error {
	if keyID == "" {
		keyID = strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate content key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	material := key
	if kmsKeyURI != "" {
		keeperInterface, err := cryptoService.NewKMSService().OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() {
			if closeErr := keeperInterface.Close(); closeErr != nil {
				_, _ = fmt.Fprintf(io.Writer, "Warning: failed to close KMS keeper: %v\n", closeErr)
			}
		}()

		keeper, ok := keeperInterface.(interface {
			Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
		})
		if !ok {
			return fmt.Errorf("KMS keeper does not support encryption")
		}

		material, err = keeper.Encrypt(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to wrap content key with KMS: %w", err)
		}
	}

	encoded := base64.StdEncoding.EncodeToString(material)

	_, _ = fmt.Fprintln(io.Writer, "# Content Key Configuration")
	_, _ = fmt.Fprintln(io.Writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(io.Writer)
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(io.Writer, "KMS_KEY_URI=%q\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintf(io.Writer, "CONTENT_KEYS=%q\n", keyID+":"+encoded)
	_, _ = fmt.Fprintf(io.Writer, "ACTIVE_CONTENT_KEY_ID=%q\n", keyID)
	_, _ = fmt.Fprintln(io.Writer)
	_, _ = fmt.Fprintln(io.Writer, "# For key rotation, append the new entry and switch the active id:")
	_, _ = fmt.Fprintf(io.Writer, "# CONTENT_KEYS=%q\n", keyID+":"+encoded+",new-key:base64-key")
	_, _ = fmt.Fprintln(io.Writer, `# ACTIVE_CONTENT_KEY_ID="new-key"`)

	return nil
}

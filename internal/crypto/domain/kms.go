package domain

import "context"

// KMSKeeper is the subset of a KMS keeper used to unwrap root content keys.
// *secrets.Keeper from gocloud.dev implements it.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

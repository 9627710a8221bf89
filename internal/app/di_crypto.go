package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/keywhiz/internal/crypto/domain"
	cryptoService "github.com/allisson/keywhiz/internal/crypto/service"
)

// KMSService returns the KMS service used to unwrap root content keys.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// ContentKeyChain returns the root content keychain loaded from environment
// variables, unwrapping key material through the configured KMS when a key URI
// is set.
func (c *Container) ContentKeyChain() (*cryptoDomain.ContentKeyChain, error) {
	var err error
	c.contentKeyChainInit.Do(func() {
		c.contentKeyChain, err = c.initContentKeyChain()
		if err != nil {
			c.initErrors["contentKeyChain"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["contentKeyChain"]; exists {
		return nil, storedErr
	}
	return c.contentKeyChain, nil
}

// Cryptographer returns the content cryptographer.
func (c *Container) Cryptographer() (cryptoService.Cryptographer, error) {
	var err error
	c.cryptographerInit.Do(func() {
		c.cryptographer, err = c.initCryptographer()
		if err != nil {
			c.initErrors["cryptographer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptographer"]; exists {
		return nil, storedErr
	}
	return c.cryptographer, nil
}

// initContentKeyChain loads the root content keychain, fail-fast on any
// malformed or missing key.
func (c *Container) initContentKeyChain() (*cryptoDomain.ContentKeyChain, error) {
	if c.config.KMSKeyURI != "" {
		chain, err := cryptoService.LoadContentKeyChainFromKMS(
			context.Background(),
			c.KMSService(),
			c.config.KMSKeyURI,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load content key chain from kms: %w", err)
		}
		return chain, nil
	}

	chain, err := cryptoDomain.LoadContentKeyChainFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load content key chain: %w", err)
	}
	return chain, nil
}

// initCryptographer creates the content cryptographer over the keychain.
func (c *Container) initCryptographer() (cryptoService.Cryptographer, error) {
	chain, err := c.ContentKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get content key chain for cryptographer: %w", err)
	}
	return cryptoService.NewCryptographer(chain), nil
}

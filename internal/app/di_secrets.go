package app

import (
	"fmt"

	secretsHttp "github.com/allisson/keywhiz/internal/secrets/http"
	secretsRepository "github.com/allisson/keywhiz/internal/secrets/repository"
	secretsUseCase "github.com/allisson/keywhiz/internal/secrets/usecase"
)

// SeriesRepository returns the secret series repository based on database driver.
func (c *Container) SeriesRepository() (secretsUseCase.SeriesRepository, error) {
	var err error
	c.seriesRepoInit.Do(func() {
		c.seriesRepo, err = c.initSeriesRepository()
		if err != nil {
			c.initErrors["seriesRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["seriesRepo"]; exists {
		return nil, storedErr
	}
	return c.seriesRepo, nil
}

// ContentRepository returns the secret content repository based on database driver.
func (c *Container) ContentRepository() (secretsUseCase.ContentRepository, error) {
	var err error
	c.contentRepoInit.Do(func() {
		c.contentRepo, err = c.initContentRepository()
		if err != nil {
			c.initErrors["contentRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["contentRepo"]; exists {
		return nil, storedErr
	}
	return c.contentRepo, nil
}

// SecretUseCase returns the secret use case.
func (c *Container) SecretUseCase() (secretsUseCase.SecretUseCase, error) {
	var err error
	c.secretUseCaseInit.Do(func() {
		c.secretUseCase, err = c.initSecretUseCase()
		if err != nil {
			c.initErrors["secretUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretUseCase"]; exists {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

// SecretHandler returns the HTTP handler for secret management operations.
func (c *Container) SecretHandler() (*secretsHttp.SecretHandler, error) {
	var err error
	c.secretHandlerInit.Do(func() {
		c.secretHandler, err = c.initSecretHandler()
		if err != nil {
			c.initErrors["secretHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretHandler"]; exists {
		return nil, storedErr
	}
	return c.secretHandler, nil
}

// initSeriesRepository creates the series repository based on the database driver.
func (c *Container) initSeriesRepository() (secretsUseCase.SeriesRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for series repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return secretsRepository.NewPostgreSQLSeriesRepository(db), nil
	case "mysql":
		return secretsRepository.NewMySQLSeriesRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initContentRepository creates the content repository based on the database driver.
func (c *Container) initContentRepository() (secretsUseCase.ContentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for content repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return secretsRepository.NewPostgreSQLContentRepository(db), nil
	case "mysql":
		return secretsRepository.NewMySQLContentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSecretUseCase creates the secret use case with all its dependencies.
func (c *Container) initSecretUseCase() (secretsUseCase.SecretUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for secret use case: %w", err)
	}

	seriesRepo, err := c.SeriesRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get series repository for secret use case: %w", err)
	}

	contentRepo, err := c.ContentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get content repository for secret use case: %w", err)
	}

	cryptographer, err := c.Cryptographer()
	if err != nil {
		return nil, fmt.Errorf("failed to get cryptographer for secret use case: %w", err)
	}

	baseUseCase := secretsUseCase.NewSecretUseCase(txManager, seriesRepo, contentRepo, cryptographer)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for secret use case: %w", err)
		}
		return secretsUseCase.NewSecretUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initSecretHandler creates the secret HTTP handler with all its dependencies.
func (c *Container) initSecretHandler() (*secretsHttp.SecretHandler, error) {
	secretUseCase, err := c.SecretUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret use case for secret handler: %w", err)
	}

	return secretsHttp.NewSecretHandler(secretUseCase, c.Logger()), nil
}

package app

import (
	"fmt"

	aclHttp "github.com/allisson/keywhiz/internal/acl/http"
	aclRepository "github.com/allisson/keywhiz/internal/acl/repository"
	aclUseCase "github.com/allisson/keywhiz/internal/acl/usecase"
)

// ClientRepository returns the client repository based on database driver.
func (c *Container) ClientRepository() (aclUseCase.ClientRepository, error) {
	var err error
	c.clientRepoInit.Do(func() {
		c.clientRepo, err = c.initClientRepository()
		if err != nil {
			c.initErrors["clientRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["clientRepo"]; exists {
		return nil, storedErr
	}
	return c.clientRepo, nil
}

// GroupRepository returns the group repository based on database driver.
func (c *Container) GroupRepository() (aclUseCase.GroupRepository, error) {
	var err error
	c.groupRepoInit.Do(func() {
		c.groupRepo, err = c.initGroupRepository()
		if err != nil {
			c.initErrors["groupRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["groupRepo"]; exists {
		return nil, storedErr
	}
	return c.groupRepo, nil
}

// MembershipRepository returns the membership repository based on database driver.
func (c *Container) MembershipRepository() (aclUseCase.MembershipRepository, error) {
	var err error
	c.membershipRepoInit.Do(func() {
		c.membershipRepo, err = c.initMembershipRepository()
		if err != nil {
			c.initErrors["membershipRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["membershipRepo"]; exists {
		return nil, storedErr
	}
	return c.membershipRepo, nil
}

// ClientUseCase returns the client use case.
func (c *Container) ClientUseCase() (aclUseCase.ClientUseCase, error) {
	var err error
	c.clientUseCaseInit.Do(func() {
		c.clientUseCase, err = c.initClientUseCase()
		if err != nil {
			c.initErrors["clientUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["clientUseCase"]; exists {
		return nil, storedErr
	}
	return c.clientUseCase, nil
}

// GroupUseCase returns the group use case.
func (c *Container) GroupUseCase() (aclUseCase.GroupUseCase, error) {
	var err error
	c.groupUseCaseInit.Do(func() {
		c.groupUseCase, err = c.initGroupUseCase()
		if err != nil {
			c.initErrors["groupUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["groupUseCase"]; exists {
		return nil, storedErr
	}
	return c.groupUseCase, nil
}

// AclUseCase returns the access-control use case.
func (c *Container) AclUseCase() (aclUseCase.AclUseCase, error) {
	var err error
	c.aclUseCaseInit.Do(func() {
		c.aclUseCase, err = c.initAclUseCase()
		if err != nil {
			c.initErrors["aclUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["aclUseCase"]; exists {
		return nil, storedErr
	}
	return c.aclUseCase, nil
}

// ClientHandler returns the HTTP handler for client management.
func (c *Container) ClientHandler() (*aclHttp.ClientHandler, error) {
	var err error
	c.clientHandlerInit.Do(func() {
		c.clientHandler, err = c.initClientHandler()
		if err != nil {
			c.initErrors["clientHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["clientHandler"]; exists {
		return nil, storedErr
	}
	return c.clientHandler, nil
}

// GroupHandler returns the HTTP handler for group management.
func (c *Container) GroupHandler() (*aclHttp.GroupHandler, error) {
	var err error
	c.groupHandlerInit.Do(func() {
		c.groupHandler, err = c.initGroupHandler()
		if err != nil {
			c.initErrors["groupHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["groupHandler"]; exists {
		return nil, storedErr
	}
	return c.groupHandler, nil
}

// AclHandler returns the HTTP handler for membership, grant and delivery operations.
func (c *Container) AclHandler() (*aclHttp.AclHandler, error) {
	var err error
	c.aclHandlerInit.Do(func() {
		c.aclHandler, err = c.initAclHandler()
		if err != nil {
			c.initErrors["aclHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["aclHandler"]; exists {
		return nil, storedErr
	}
	return c.aclHandler, nil
}

// initClientRepository creates the client repository based on the database driver.
func (c *Container) initClientRepository() (aclUseCase.ClientRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for client repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return aclRepository.NewPostgreSQLClientRepository(db), nil
	case "mysql":
		return aclRepository.NewMySQLClientRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initGroupRepository creates the group repository based on the database driver.
func (c *Container) initGroupRepository() (aclUseCase.GroupRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for group repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return aclRepository.NewPostgreSQLGroupRepository(db), nil
	case "mysql":
		return aclRepository.NewMySQLGroupRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initMembershipRepository creates the membership repository based on the database driver.
func (c *Container) initMembershipRepository() (aclUseCase.MembershipRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for membership repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return aclRepository.NewPostgreSQLMembershipRepository(db), nil
	case "mysql":
		return aclRepository.NewMySQLMembershipRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initClientUseCase creates the client use case.
func (c *Container) initClientUseCase() (aclUseCase.ClientUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for client use case: %w", err)
	}

	baseUseCase := aclUseCase.NewClientUseCase(clientRepo)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for client use case: %w", err)
		}
		return aclUseCase.NewClientUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initGroupUseCase creates the group use case.
func (c *Container) initGroupUseCase() (aclUseCase.GroupUseCase, error) {
	groupRepo, err := c.GroupRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get group repository for group use case: %w", err)
	}

	baseUseCase := aclUseCase.NewGroupUseCase(groupRepo)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for group use case: %w", err)
		}
		return aclUseCase.NewGroupUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAclUseCase creates the access-control use case with all its dependencies.
func (c *Container) initAclUseCase() (aclUseCase.AclUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for acl use case: %w", err)
	}

	groupRepo, err := c.GroupRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get group repository for acl use case: %w", err)
	}

	membershipRepo, err := c.MembershipRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get membership repository for acl use case: %w", err)
	}

	seriesRepo, err := c.SeriesRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get series repository for acl use case: %w", err)
	}

	contentRepo, err := c.ContentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get content repository for acl use case: %w", err)
	}

	cryptographer, err := c.Cryptographer()
	if err != nil {
		return nil, fmt.Errorf("failed to get cryptographer for acl use case: %w", err)
	}

	baseUseCase := aclUseCase.NewAclUseCase(
		clientRepo,
		groupRepo,
		membershipRepo,
		seriesRepo,
		contentRepo,
		cryptographer,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for acl use case: %w", err)
		}
		return aclUseCase.NewAclUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initClientHandler creates the client HTTP handler.
func (c *Container) initClientHandler() (*aclHttp.ClientHandler, error) {
	clientUC, err := c.ClientUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get client use case for client handler: %w", err)
	}
	return aclHttp.NewClientHandler(clientUC, c.Logger()), nil
}

// initGroupHandler creates the group HTTP handler.
func (c *Container) initGroupHandler() (*aclHttp.GroupHandler, error) {
	groupUC, err := c.GroupUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get group use case for group handler: %w", err)
	}
	return aclHttp.NewGroupHandler(groupUC, c.Logger()), nil
}

// initAclHandler creates the acl HTTP handler.
func (c *Container) initAclHandler() (*aclHttp.AclHandler, error) {
	aclUC, err := c.AclUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get acl use case for acl handler: %w", err)
	}
	return aclHttp.NewAclHandler(aclUC, c.Logger()), nil
}

package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	appValidation "github.com/allisson/keywhiz/internal/validation"
)

// clientUseCase implements ClientUseCase.
type clientUseCase struct {
	clientRepo ClientRepository
}

// NewClientUseCase creates a new client use case instance.
func NewClientUseCase(clientRepo ClientRepository) ClientUseCase {
	return &clientUseCase{clientRepo: clientRepo}
}

func (c *clientUseCase) validateCreateClientInput(input CreateClientInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Creator,
			validation.Required.Error("creator is required"),
			appValidation.NotBlank,
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create registers a new client.
func (c *clientUseCase) Create(ctx context.Context, input CreateClientInput) (*aclDomain.Client, error) {
	if err := c.validateCreateClientInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	client := &aclDomain.Client{
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		CreatedBy:   input.Creator,
		UpdatedAt:   now,
		UpdatedBy:   input.Creator,
		Automation:  input.Automation,
	}

	id, err := c.clientRepo.Create(ctx, client)
	if err != nil {
		return nil, err
	}
	client.ID = id

	return client, nil
}

// Get retrieves a client by name.
func (c *clientUseCase) Get(ctx context.Context, name string) (*aclDomain.Client, error) {
	return c.clientRepo.GetByName(ctx, name)
}

// List retrieves every client.
func (c *clientUseCase) List(ctx context.Context) ([]*aclDomain.Client, error) {
	return c.clientRepo.List(ctx)
}

// Delete removes a client and its memberships.
func (c *clientUseCase) Delete(ctx context.Context, name string) error {
	if _, err := c.clientRepo.GetByName(ctx, name); err != nil {
		return err
	}
	return c.clientRepo.DeleteByName(ctx, name)
}

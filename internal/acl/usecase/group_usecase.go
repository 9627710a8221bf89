package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	appValidation "github.com/allisson/keywhiz/internal/validation"
)

// groupUseCase implements GroupUseCase.
type groupUseCase struct {
	groupRepo GroupRepository
}

// NewGroupUseCase creates a new group use case instance.
func NewGroupUseCase(groupRepo GroupRepository) GroupUseCase {
	return &groupUseCase{groupRepo: groupRepo}
}

func (g *groupUseCase) validateCreateGroupInput(input CreateGroupInput) error {
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
		validation.Field(&input.Metadata, appValidation.MetadataKeys{}),
	)
	return appValidation.WrapValidationError(err)
}

// Create registers a new group.
func (g *groupUseCase) Create(ctx context.Context, input CreateGroupInput) (*aclDomain.Group, error) {
	if err := g.validateCreateGroupInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	group := &aclDomain.Group{
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		CreatedBy:   input.Creator,
		UpdatedAt:   now,
		UpdatedBy:   input.Creator,
		Metadata:    input.Metadata,
	}

	id, err := g.groupRepo.Create(ctx, group)
	if err != nil {
		return nil, err
	}
	group.ID = id

	return group, nil
}

// Get retrieves a group by name.
func (g *groupUseCase) Get(ctx context.Context, name string) (*aclDomain.Group, error) {
	return g.groupRepo.GetByName(ctx, name)
}

// List retrieves every group.
func (g *groupUseCase) List(ctx context.Context) ([]*aclDomain.Group, error) {
	return g.groupRepo.List(ctx)
}

// Delete removes a group, its memberships and its grants.
func (g *groupUseCase) Delete(ctx context.Context, name string) error {
	if _, err := g.groupRepo.GetByName(ctx, name); err != nil {
		return err
	}
	return g.groupRepo.DeleteByName(ctx, name)
}

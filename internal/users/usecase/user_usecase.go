package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/allisson/go-pwdhash"
	validation "github.com/jellydator/validation"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	usersDomain "github.com/allisson/keywhiz/internal/users/domain"
	appValidation "github.com/allisson/keywhiz/internal/validation"
)

// userUseCase implements UserUseCase with Argon2id password hashing.
type userUseCase struct {
	userRepo UserRepository
	hasher   *pwdhash.PasswordHasher
}

// NewUserUseCase creates a new user use case instance.
func NewUserUseCase(userRepo UserRepository) (UserUseCase, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &userUseCase{userRepo: userRepo, hasher: hasher}, nil
}

func (u *userUseCase) validateRegisterUserInput(input RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("username must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new operator account with a hashed password.
func (u *userUseCase) Register(ctx context.Context, input RegisterUserInput) (*usersDomain.User, error) {
	if err := u.validateRegisterUserInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := u.hasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	now := time.Now().UTC()
	user := &usersDomain.User{
		Username:       strings.TrimSpace(input.Username),
		Email:          strings.TrimSpace(strings.ToLower(input.Email)),
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	id, err := u.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	return user, nil
}

// Get retrieves a user by username.
func (u *userUseCase) Get(ctx context.Context, username string) (*usersDomain.User, error) {
	return u.userRepo.GetByUsername(ctx, username)
}

// List retrieves every user.
func (u *userUseCase) List(ctx context.Context) ([]*usersDomain.User, error) {
	return u.userRepo.List(ctx)
}

// Delete removes a user by username.
func (u *userUseCase) Delete(ctx context.Context, username string) error {
	if _, err := u.userRepo.GetByUsername(ctx, username); err != nil {
		return err
	}
	return u.userRepo.DeleteByUsername(ctx, username)
}

// Login verifies a username/password pair and returns the operator principal.
func (u *userUseCase) Login(ctx context.Context, username, password string) (*aclDomain.OperatorUser, error) {
	user, err := u.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, usersDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := u.hasher.Verify([]byte(password), user.HashedPassword)
	if err != nil || !ok {
		return nil, usersDomain.ErrInvalidCredentials
	}

	return &aclDomain.OperatorUser{Username: user.Username}, nil
}

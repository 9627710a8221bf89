// Package dto provides data transfer objects for the user management HTTP surface.
package dto

import (
	validation "github.com/jellydator/validation"
)

// RegisterUserRequest contains the parameters for registering an operator.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks if the register user request is valid.
func (r *RegisterUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
}

// Package dto provides data transfer objects for the access-control HTTP surface.
package dto

import (
	validation "github.com/jellydator/validation"
)

// CreateClientRequest contains the parameters for registering a client.
type CreateClientRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Automation  bool   `json:"automation"`
}

// Validate checks if the create client request is valid.
func (r *CreateClientRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
	)
}

// CreateGroupRequest contains the parameters for registering a group.
type CreateGroupRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

// Validate checks if the create group request is valid.
func (r *CreateGroupRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
	)
}

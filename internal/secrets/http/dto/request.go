// Package dto provides data transfer objects for the secret management HTTP surface.
package dto

import (
	validation "github.com/jellydator/validation"
)

// CreateSecretRequest contains the parameters for creating a secret revision.
// Content carries the plaintext base64-encoded; it is decoded before reaching
// the use case.
type CreateSecretRequest struct {
	Name              string            `json:"name"`
	Content           string            `json:"content"`
	Description       string            `json:"description"`
	Metadata          map[string]string `json:"metadata"`
	Type              string            `json:"type"`
	GenerationOptions map[string]string `json:"generationOptions"`
	WithVersion       bool              `json:"withVersion"`
	Version           string            `json:"version"`
}

// Validate checks if the create secret request is valid.
func (r *CreateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
		),
	)
}

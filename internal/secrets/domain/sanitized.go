package domain

import "time"

// SanitizedSecret is a projection of a secret carrying no cryptographic
// material, safe for listing surfaces. Length is the decoded content length
// derived from the envelope overhead without decrypting; Checksum is filled
// only where the plaintext was already resolved for the response.
type SanitizedSecret struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description,omitempty"`
	Version           string            `json:"version"`
	Checksum          string            `json:"checksum,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	CreatedBy         string            `json:"createdBy,omitempty"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	UpdatedBy         string            `json:"updatedBy,omitempty"`
	Type              string            `json:"type,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	GenerationOptions map[string]string `json:"generationOptions,omitempty"`
	Length            int               `json:"secretLength"`
}

// Sanitize projects a secret for listing responses. The decoded length is
// computed by the caller from the envelope (no decryption happens here).
func Sanitize(secret *Secret, decodedLength int) SanitizedSecret {
	return SanitizedSecret{
		ID:                secret.Series.ID,
		Name:              secret.Series.Name,
		Description:       secret.Series.Description,
		Version:           secret.Content.Version,
		CreatedAt:         secret.Content.CreatedAt,
		CreatedBy:         secret.Content.CreatedBy,
		UpdatedAt:         secret.Content.UpdatedAt,
		UpdatedBy:         secret.Content.UpdatedBy,
		Type:              secret.Series.Type,
		Metadata:          secret.Series.Metadata,
		GenerationOptions: secret.Series.GenerationOptions,
		Length:            decodedLength,
	}
}

// DisplayName returns the user-visible identifier of this sanitized revision.
func (s SanitizedSecret) DisplayName() string {
	return DisplayName(s.Name, s.Version)
}

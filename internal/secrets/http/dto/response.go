package dto

import (
	"encoding/base64"
	"time"

	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

// SecretResponse represents secret metadata in API responses. The plaintext is
// never included; delivery responses use SecretDeliveryResponse instead.
type SecretResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	DisplayName string            `json:"displayName"`
	Description string            `json:"description,omitempty"`
	Version     string            `json:"version"`
	CreatedAt   time.Time         `json:"createdAt"`
	CreatedBy   string            `json:"createdBy,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	UpdatedBy   string            `json:"updatedBy,omitempty"`
	Type        string            `json:"type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// SecretDeliveryResponse carries a resolved secret to an authorized client.
// Secret is the base64-encoded plaintext; Checksum its hex SHA-256 digest and
// SecretLength the plaintext length in bytes.
type SecretDeliveryResponse struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	DisplayName  string            `json:"displayName"`
	Secret       string            `json:"secret"`
	Checksum     string            `json:"checksum"`
	SecretLength int               `json:"secretLength"`
	Version      string            `json:"version"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	Type         string            `json:"type,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// MapSecretToResponse converts a domain secret to a metadata-only API response.
func MapSecretToResponse(secret *secretsDomain.Secret) SecretResponse {
	return SecretResponse{
		ID:          secret.Series.ID,
		Name:        secret.Series.Name,
		DisplayName: secretsDomain.DisplayName(secret.Series.Name, secret.Content.Version),
		Description: secret.Series.Description,
		Version:     secret.Content.Version,
		CreatedAt:   secret.Content.CreatedAt,
		CreatedBy:   secret.Content.CreatedBy,
		UpdatedAt:   secret.Content.UpdatedAt,
		UpdatedBy:   secret.Content.UpdatedBy,
		Type:        secret.Series.Type,
		Metadata:    secret.Series.Metadata,
	}
}

// MapSecretToDeliveryResponse converts a domain secret and its resolved
// plaintext to a delivery response.
func MapSecretToDeliveryResponse(secret *secretsDomain.Secret, plaintext []byte) SecretDeliveryResponse {
	return SecretDeliveryResponse{
		ID:           secret.Series.ID,
		Name:         secret.Series.Name,
		DisplayName:  secretsDomain.DisplayName(secret.Series.Name, secret.Content.Version),
		Secret:       base64.StdEncoding.EncodeToString(plaintext),
		Checksum:     secretsDomain.Checksum(plaintext),
		SecretLength: len(plaintext),
		Version:      secret.Content.Version,
		CreatedAt:    secret.Content.CreatedAt,
		UpdatedAt:    secret.Content.UpdatedAt,
		Type:         secret.Series.Type,
		Metadata:     secret.Series.Metadata,
	}
}

package dto

import (
	"time"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
)

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
	Automation  bool      `json:"automation"`
}

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	CreatedBy   string            `json:"createdBy,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	UpdatedBy   string            `json:"updatedBy,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// MapClientToResponse converts a domain client to an API response.
func MapClientToResponse(client *aclDomain.Client) ClientResponse {
	return ClientResponse{
		ID:          client.ID,
		Name:        client.Name,
		Description: client.Description,
		CreatedAt:   client.CreatedAt,
		CreatedBy:   client.CreatedBy,
		UpdatedAt:   client.UpdatedAt,
		UpdatedBy:   client.UpdatedBy,
		Automation:  client.Automation,
	}
}

// MapGroupToResponse converts a domain group to an API response.
func MapGroupToResponse(group *aclDomain.Group) GroupResponse {
	return GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		CreatedAt:   group.CreatedAt,
		CreatedBy:   group.CreatedBy,
		UpdatedAt:   group.UpdatedAt,
		UpdatedBy:   group.UpdatedBy,
		Metadata:    group.Metadata,
	}
}

// MapClientsToResponse converts a list of domain clients to API responses.
func MapClientsToResponse(clients []*aclDomain.Client) []ClientResponse {
	result := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		result = append(result, MapClientToResponse(client))
	}
	return result
}

// MapGroupsToResponse converts a list of domain groups to API responses.
func MapGroupsToResponse(groups []*aclDomain.Group) []GroupResponse {
	result := make([]GroupResponse, 0, len(groups))
	for _, group := range groups {
		result = append(result, MapGroupToResponse(group))
	}
	return result
}

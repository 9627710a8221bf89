package dto

import (
	"time"

	usersDomain "github.com/allisson/keywhiz/internal/users/domain"
)

// UserResponse represents an operator user in API responses. The password
// hash is never included.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *usersDomain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// MapUsersToResponse converts a list of domain users to API responses.
func MapUsersToResponse(users []*usersDomain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for _, user := range users {
		result = append(result, MapUserToResponse(user))
	}
	return result
}

package converter

import (
	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/dto"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// The role name falls back to the seeded role IDs when Role is not preloaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := entity.RoleNameByID(user.RoleID)
	if user.Role != nil {
		role = user.Role.RoleName
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

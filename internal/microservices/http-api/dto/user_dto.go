package dto

import "yamdb/internal/microservices/http-api/models"

// CreateUserDTO used by admins for POST /users
type CreateUserDTO struct {
	Username  string  `json:"username" binding:"required,max=150"`
	Email     string  `json:"email" binding:"required,email,max=254"`
	FirstName string  `json:"first_name" binding:"max=150"`
	LastName  string  `json:"last_name" binding:"max=150"`
	Bio       string  `json:"bio"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

// UpdateUserDTO used for PUT/PATCH /users/:username and PATCH /users/me.
// Nil fields are left untouched.
type UpdateUserDTO struct {
	Username  *string `json:"username" binding:"omitempty,max=150"`
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

// UserFilter binds GET /users query parameters.
type UserFilter struct {
	PageQuery
	Search string `form:"search"`
}

type UserResponse struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role"`
}

func UserFromModel(u *models.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}

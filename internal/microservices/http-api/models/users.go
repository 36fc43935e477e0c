package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of permission roles a user can hold.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Unique index names, reported back by postgres on violation.
const (
	IdxUsersUsername = "idx_users_username"
	IdxUsersEmail    = "idx_users_email"
)

type User struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string     `gorm:"size:150;not null;uniqueIndex:idx_users_username" json:"username"`
	Email       string     `gorm:"size:254;not null;uniqueIndex:idx_users_email" json:"email"`
	FirstName   string     `gorm:"size:150;not null;default:''" json:"first_name"`
	LastName    string     `gorm:"size:150;not null;default:''" json:"last_name"`
	Bio         string     `gorm:"type:text;not null;default:''" json:"bio"`
	Role        Role       `gorm:"size:16;not null;default:'user';check:chk_users_role,role IN ('user','moderator','admin')" json:"role"`
	IsSuperuser bool       `gorm:"not null;default:false" json:"-"`
	LastLogin   *time.Time `json:"-"` // set on every confirmation code exchange
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// BeforeCreate hook to set UUID and the default role before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

// IsVerified reports whether the user has exchanged a confirmation code at least once.
func (user *User) IsVerified() bool {
	return user.LastLogin != nil
}

func (User) TableName() string {
	return "users"
}

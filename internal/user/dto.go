package user

import (
	"errors"
	"strings"
)

// CreateUserDTO represents the request payload for creating a user
type CreateUserDTO struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Password   string `json:"password"`
	RoleID     int64  `json:"role_id"`
	CompanyID  int64  `json:"company_id"`
	UserTypeID *int64 `json:"user_type_id,omitempty"`
}

func (dto CreateUserDTO) Validate() error {
	if dto.Email == "" || !strings.Contains(dto.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if dto.RoleID <= 0 {
		return errors.New("role_id is required")
	}
	if dto.CompanyID <= 0 {
		return errors.New("company_id is required")
	}
	return nil
}

// UpdateUserDTO carries partial updates. Nil fields are left untouched.
// IsActive may toggle deactivation; it never clears the deleted flag.
type UpdateUserDTO struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Password   *string `json:"password,omitempty"`
	RoleID     *int64  `json:"role_id,omitempty"`
	UserTypeID *int64  `json:"user_type_id,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.Password != nil && len(*dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if dto.RoleID != nil && *dto.RoleID <= 0 {
		return errors.New("role_id must be positive")
	}
	return nil
}

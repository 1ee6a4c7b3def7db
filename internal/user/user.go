package user

import "time"

// User belongs to one Role and one Company. Deactivation (IsActive) and
// deletion (IsDeleted) are independent flags: a soft-deleted user is also
// deactivated, but a deactivated user is not deleted.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	FirstName    string    `json:"first_name" gorm:"column:first_name"`
	LastName     string    `json:"last_name" gorm:"column:last_name"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	RoleID       int64     `json:"role_id" gorm:"column:role_id;not null"`
	CompanyID    int64     `json:"company_id" gorm:"column:company_id"`
	UserTypeID   *int64    `json:"user_type_id,omitempty" gorm:"column:user_type_id"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	IsDeleted    bool      `json:"is_deleted" gorm:"column:is_deleted;default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type UserType struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (UserType) TableName() string {
	return "user_types"
}

// Role grants a set of permission keys through role_permissions.
type Role struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}

type RolePermission struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	RoleID       int64     `json:"role_id" gorm:"column:role_id;not null;uniqueIndex:idx_role_permission"`
	PermissionID int64     `json:"permission_id" gorm:"column:permission_id;not null;uniqueIndex:idx_role_permission"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

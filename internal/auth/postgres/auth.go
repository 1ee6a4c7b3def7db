package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/auth"
	"github.com/frahmantamala/merchant-management/internal/company"
	"github.com/frahmantamala/merchant-management/internal/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByEmail(email string) (*auth.Credentials, error) {
	var creds auth.Credentials
	query := `SELECT id, password_hash, is_active, is_deleted FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&creds.UserID, &creds.PasswordHash, &creds.IsActive, &creds.IsDeleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &creds, nil
}

func (r *Repository) GetUserWithPermissions(userID int64) (*internal.ContextUser, error) {
	var ctxUser internal.ContextUser

	query := `SELECT id, email, company_id, role_id FROM users WHERE id = ? AND is_active = true AND is_deleted = false`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&ctxUser.ID, &ctxUser.Email, &ctxUser.CompanyID, &ctxUser.RoleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	permQuery := `SELECT p.name
	             FROM permissions p
	             JOIN role_permissions rp ON p.id = rp.permission_id
	             WHERE rp.role_id = ?`

	rows, err := r.db.Raw(permQuery, ctxUser.RoleID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permName string
		if err := rows.Scan(&permName); err != nil {
			return nil, err
		}
		permissions = append(permissions, permName)
	}

	ctxUser.Permissions = permissions
	return &ctxUser, nil
}

func (r *Repository) GetRoleByName(name string) (*user.Role, error) {
	var role user.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *Repository) CompanyNameExists(name string) (bool, error) {
	var count int64
	err := r.db.Model(&company.Company{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CompanyPhoneExists(phone string) (bool, error) {
	var count int64
	err := r.db.Model(&company.Company{}).Where("phone_number = ?", phone).Count(&count).Error
	return count > 0, err
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&user.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// CreateCompanyAndUser persists both rows in one transaction so a failed
// user insert rolls the company back with it.
func (r *Repository) CreateCompanyAndUser(c *company.Company, u *user.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		u.CompanyID = c.ID
		return tx.Create(u).Error
	})
}

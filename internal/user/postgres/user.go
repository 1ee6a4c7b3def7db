package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/merchant-management/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository returns the concrete type: it satisfies both
// user.Repository and the admin service's wider view of users.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetAll returns non-deleted users. The admin listing uses GetAllIncludingDeleted.
func (r *UserRepository) GetAll() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Where("is_deleted = false").
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) GetAllIncludingDeleted() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetPaginated(limit, offset int) ([]*user.User, int64, error) {
	var total int64
	if err := r.db.Model(&user.User{}).Where("is_deleted = false").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*user.User
	err := r.db.Where("is_deleted = false").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepository) GetByUserType(userTypeID int64) ([]*user.User, error) {
	var users []*user.User
	err := r.db.Where("user_type_id = ? AND is_deleted = false", userTypeID).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(u *user.User) error {
	u.UpdatedAt = time.Now()
	return r.db.Save(u).Error
}

func (r *UserRepository) CountByDeleted(deleted bool) (int64, error) {
	var count int64
	err := r.db.Model(&user.User{}).Where("is_deleted = ?", deleted).Count(&count).Error
	return count, err
}

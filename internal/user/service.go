package user

import (
	"log/slog"

	"github.com/frahmantamala/merchant-management/internal"
)

// Repository interface defines the data access methods for users
type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetAll() ([]*User, error)
	GetPaginated(limit, offset int) ([]*User, int64, error)
	GetByUserType(userTypeID int64) ([]*User, error)
	Update(u *User) error
}

// PasswordHasher hashes plaintext passwords before storage.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Service handles user business logic
type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	} else if existing != nil {
		return nil, internal.ErrDuplicateEmail
	}

	passwordHash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PasswordHash: passwordHash,
		RoleID:       dto.RoleID,
		CompanyID:    dto.CompanyID,
		UserTypeID:   dto.UserTypeID,
		IsActive:     true,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if u == nil || u.IsDeleted {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) GetAll() ([]*User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (s *Service) GetPaginated(page, perPage int) ([]*User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	users, total, err := s.repo.GetPaginated(perPage, (page-1)*perPage)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, 0, internal.NewInternalError("failed to list users", err)
	}
	return users, total, nil
}

func (s *Service) GetByUserType(userTypeID int64) ([]*User, error) {
	users, err := s.repo.GetByUserType(userTypeID)
	if err != nil {
		s.logger.Error("failed to list users by type", "error", err, "user_type_id", userTypeID)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// Update applies a partial update. Toggling IsActive here handles
// deactivation and reactivation of non-deleted users; it never touches the
// deleted flag — a soft-deleted user can only come back through the admin
// reactivation path.
func (s *Service) Update(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if u == nil || u.IsDeleted {
		return nil, internal.ErrUserNotFound
	}

	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if dto.RoleID != nil {
		u.RoleID = *dto.RoleID
	}
	if dto.UserTypeID != nil {
		u.UserTypeID = dto.UserTypeID
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
	if dto.Password != nil {
		passwordHash, err := s.hasher.HashPassword(*dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		u.PasswordHash = passwordHash
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", u.ID)
	return u, nil
}

// Delete soft-deletes: both flags flip, the row stays.
func (s *Service) Delete(id int64) error {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewInternalError("failed to get user", err)
	}
	if u == nil || u.IsDeleted {
		return internal.ErrUserNotFound
	}

	u.IsDeleted = true
	u.IsActive = false

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user soft-deleted", "user_id", id)
	return nil
}

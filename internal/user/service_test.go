package user_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.Repository for testing
type MockRepository struct {
	users      map[int64]*user.User
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:  make(map[int64]*user.User),
		nextID: 1,
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) Create(u *user.User) error {
	if m.shouldFail {
		return m.failError
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) GetByID(id int64) (*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.users[id], nil
}

func (m *MockRepository) GetByEmail(email string) (*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetAll() ([]*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var users []*user.User
	for _, u := range m.users {
		if !u.IsDeleted {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *MockRepository) GetPaginated(limit, offset int) ([]*user.User, int64, error) {
	if m.shouldFail {
		return nil, 0, m.failError
	}
	all, _ := m.GetAll()
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *MockRepository) GetByUserType(userTypeID int64) ([]*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var users []*user.User
	for _, u := range m.users {
		if !u.IsDeleted && u.UserTypeID != nil && *u.UserTypeID == userTypeID {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *MockRepository) Update(u *user.User) error {
	if m.shouldFail {
		return m.failError
	}
	m.users[u.ID] = u
	return nil
}

// MockHasher implements user.PasswordHasher
type MockHasher struct{}

func (MockHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

var _ = Describe("User Service", func() {
	var (
		mockRepo *MockRepository
		service  *user.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, MockHasher{}, logger)
	})

	seedUser := func(email string) *user.User {
		u := &user.User{
			Email:        email,
			PasswordHash: "hashed:something",
			RoleID:       2,
			CompanyID:    1,
			IsActive:     true,
		}
		Expect(mockRepo.Create(u)).To(Succeed())
		return u
	}

	Describe("Create", func() {
		validDTO := user.CreateUserDTO{
			Email:     "new@acme.example",
			Password:  "long-enough-password",
			RoleID:    2,
			CompanyID: 1,
		}

		It("should create an active user with a hashed password", func() {
			u, err := service.Create(validDTO)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeTrue())
			Expect(u.IsDeleted).To(BeFalse())
			Expect(u.PasswordHash).To(Equal("hashed:long-enough-password"))
		})

		It("should reject a duplicate email", func() {
			seedUser("new@acme.example")

			_, err := service.Create(validDTO)
			Expect(err).To(Equal(internal.ErrDuplicateEmail))
		})

		It("should reject an invalid email", func() {
			dto := validDTO
			dto.Email = "not-an-email"

			_, err := service.Create(dto)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject a short password", func() {
			dto := validDTO
			dto.Password = "short"

			_, err := service.Create(dto)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetByID", func() {
		It("should return an existing user", func() {
			u := seedUser("ops@acme.example")

			result, err := service.GetByID(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Email).To(Equal("ops@acme.example"))
		})

		It("should return not found for a missing user", func() {
			_, err := service.GetByID(999)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("should hide a soft-deleted user", func() {
			u := seedUser("gone@acme.example")
			u.IsDeleted = true

			_, err := service.GetByID(u.ID)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("Update", func() {
		It("should deactivate without touching the deleted flag", func() {
			u := seedUser("ops@acme.example")

			inactive := false
			updated, err := service.Update(u.ID, user.UpdateUserDTO{IsActive: &inactive})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())
			Expect(updated.IsDeleted).To(BeFalse())
		})

		It("should reactivate a deactivated but not deleted user", func() {
			u := seedUser("ops@acme.example")
			u.IsActive = false

			active := true
			updated, err := service.Update(u.ID, user.UpdateUserDTO{IsActive: &active})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeTrue())
		})

		It("should refuse to update a soft-deleted user", func() {
			u := seedUser("gone@acme.example")
			u.IsDeleted = true

			active := true
			_, err := service.Update(u.ID, user.UpdateUserDTO{IsActive: &active})
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("should rehash a changed password", func() {
			u := seedUser("ops@acme.example")

			newPassword := "another-long-password"
			updated, err := service.Update(u.ID, user.UpdateUserDTO{Password: &newPassword})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.PasswordHash).To(Equal("hashed:another-long-password"))
		})
	})

	Describe("Delete", func() {
		It("should set both the deleted and inactive flags", func() {
			u := seedUser("ops@acme.example")

			Expect(service.Delete(u.ID)).To(Succeed())
			Expect(u.IsDeleted).To(BeTrue())
			Expect(u.IsActive).To(BeFalse())
		})

		It("should keep the row around after deletion", func() {
			u := seedUser("ops@acme.example")
			Expect(service.Delete(u.ID)).To(Succeed())

			stored, err := mockRepo.GetByID(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).NotTo(BeNil())
		})

		It("should fail on a user already deleted", func() {
			u := seedUser("ops@acme.example")
			Expect(service.Delete(u.ID)).To(Succeed())

			err := service.Delete(u.ID)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("GetPaginated", func() {
		BeforeEach(func() {
			seedUser("a@acme.example")
			seedUser("b@acme.example")
			seedUser("c@acme.example")
		})

		It("should clamp invalid paging parameters", func() {
			users, total, err := service.GetPaginated(0, -5)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(users).To(HaveLen(3))
		})
	})

	Describe("when the repository fails", func() {
		It("should surface an internal error", func() {
			mockRepo.SetShouldFail(true, errors.New("database down"))

			_, err := service.GetAll()
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})
})

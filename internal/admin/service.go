package admin

import (
	"log/slog"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/user"
)

// UserRepository is the slice of the user repo the admin service needs,
// including access to soft-deleted rows.
type UserRepository interface {
	GetByID(id int64) (*user.User, error)
	GetAllIncludingDeleted() ([]*user.User, error)
	Update(u *user.User) error
	CountByDeleted(deleted bool) (int64, error)
}

// StatsRepository aggregates entity counts for the dashboard.
type StatsRepository interface {
	CountCompanies() (int64, error)
	CountCurrencies() (int64, error)
	CountCurrencyGroups() (int64, error)
	CountWebhookTemplates() (int64, error)
}

type Stats struct {
	ActiveUsers      int64 `json:"active_users"`
	DeletedUsers     int64 `json:"deleted_users"`
	Companies        int64 `json:"companies"`
	Currencies       int64 `json:"currencies"`
	CurrencyGroups   int64 `json:"currency_groups"`
	WebhookTemplates int64 `json:"webhook_templates"`
}

type Service struct {
	users  UserRepository
	stats  StatsRepository
	logger *slog.Logger
}

func NewService(users UserRepository, stats StatsRepository, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		stats:  stats,
		logger: logger,
	}
}

func (s *Service) GetStats() (*Stats, error) {
	activeUsers, err := s.users.CountByDeleted(false)
	if err != nil {
		return nil, internal.NewInternalError("failed to count users", err)
	}
	deletedUsers, err := s.users.CountByDeleted(true)
	if err != nil {
		return nil, internal.NewInternalError("failed to count users", err)
	}
	companies, err := s.stats.CountCompanies()
	if err != nil {
		return nil, internal.NewInternalError("failed to count companies", err)
	}
	currencies, err := s.stats.CountCurrencies()
	if err != nil {
		return nil, internal.NewInternalError("failed to count currencies", err)
	}
	groups, err := s.stats.CountCurrencyGroups()
	if err != nil {
		return nil, internal.NewInternalError("failed to count currency groups", err)
	}
	templates, err := s.stats.CountWebhookTemplates()
	if err != nil {
		return nil, internal.NewInternalError("failed to count webhook templates", err)
	}

	return &Stats{
		ActiveUsers:      activeUsers,
		DeletedUsers:     deletedUsers,
		Companies:        companies,
		Currencies:       currencies,
		CurrencyGroups:   groups,
		WebhookTemplates: templates,
	}, nil
}

// GetAllUsers lists every user, soft-deleted included — the admin view shows
// both so deleted accounts can be found and restored.
func (s *Service) GetAllUsers() ([]*user.User, error) {
	users, err := s.users.GetAllIncludingDeleted()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// ReactivateUser restores a soft-deleted account: it clears BOTH the deleted
// and inactive flags. This is the only path that clears is_deleted.
func (s *Service) ReactivateUser(id int64) (*user.User, error) {
	u, err := s.users.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}

	u.IsDeleted = false
	u.IsActive = true

	if err := s.users.Update(u); err != nil {
		s.logger.Error("failed to reactivate user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to reactivate user", err)
	}

	s.logger.Info("user reactivated", "user_id", id)
	return u, nil
}

package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/merchant-management/internal/admin"
	"github.com/frahmantamala/merchant-management/internal/company"
	"github.com/frahmantamala/merchant-management/internal/currency"
	"github.com/frahmantamala/merchant-management/internal/webhook"
)

// StatsRepository counts entities for the admin dashboard.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) admin.StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountCompanies() (int64, error) {
	return r.count(&company.Company{})
}

func (r *StatsRepository) CountCurrencies() (int64, error) {
	return r.count(&currency.Currency{})
}

func (r *StatsRepository) CountCurrencyGroups() (int64, error) {
	return r.count(&currency.Group{})
}

func (r *StatsRepository) CountWebhookTemplates() (int64, error) {
	return r.count(&webhook.Template{})
}

func (r *StatsRepository) count(model interface{}) (int64, error) {
	var count int64
	err := r.db.Model(model).Count(&count).Error
	return count, err
}

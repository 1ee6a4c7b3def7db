package postgres

import (
	"errors"

	"github.com/frahmantamala/merchant-management/internal/company"
	"gorm.io/gorm"
)

// CompanyRepository gives the admin and auth services access to companies.
type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetByID(id int64) (*company.Company, error) {
	var c company.Company
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) GetByAirwallexAccountID(accountID string) (*company.Company, error) {
	var c company.Company
	err := r.db.Where("airwallex_account_id = ?", accountID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&company.Company{}).Count(&count).Error
	return count, err
}

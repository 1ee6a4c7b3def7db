package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/merchant-management/internal/currency"
)

// CurrencyRepository implements currency.Repository with GORM.
type CurrencyRepository struct {
	db *gorm.DB
}

func NewCurrencyRepository(db *gorm.DB) currency.Repository {
	return &CurrencyRepository{db: db}
}

// Groups

func (r *CurrencyRepository) CreateGroup(g *currency.Group) error {
	return r.db.Create(g).Error
}

func (r *CurrencyRepository) GetGroupByID(id int64) (*currency.Group, error) {
	var g currency.Group
	err := r.db.Where("id = ?", id).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *CurrencyRepository) GetGroupByName(name string) (*currency.Group, error) {
	var g currency.Group
	err := r.db.Where("name = ?", name).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *CurrencyRepository) GetAllGroups() ([]*currency.Group, error) {
	var groups []*currency.Group
	err := r.db.Order("name ASC").Find(&groups).Error
	return groups, err
}

func (r *CurrencyRepository) UpdateGroup(g *currency.Group) error {
	g.UpdatedAt = time.Now()
	return r.db.Save(g).Error
}

func (r *CurrencyRepository) DeleteGroup(id int64) error {
	return r.db.Delete(&currency.Group{}, id).Error
}

// Currencies

func (r *CurrencyRepository) CreateCurrency(c *currency.Currency) error {
	return r.db.Create(c).Error
}

func (r *CurrencyRepository) GetCurrencyByID(id int64) (*currency.Currency, error) {
	var c currency.Currency
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CurrencyRepository) GetCurrencyByCode(code string) (*currency.Currency, error) {
	var c currency.Currency
	err := r.db.Where("code = ?", code).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CurrencyRepository) GetAllCurrencies() ([]*currency.Currency, error) {
	var currencies []*currency.Currency
	err := r.db.Order("code ASC").Find(&currencies).Error
	return currencies, err
}

func (r *CurrencyRepository) GetCurrenciesByGroup(groupID int64) ([]*currency.Currency, error) {
	var currencies []*currency.Currency
	err := r.db.Where("group_id = ?", groupID).Order("code ASC").Find(&currencies).Error
	return currencies, err
}

func (r *CurrencyRepository) UpdateCurrency(c *currency.Currency) error {
	c.UpdatedAt = time.Now()
	return r.db.Save(c).Error
}

func (r *CurrencyRepository) DeleteCurrency(id int64) error {
	return r.db.Delete(&currency.Currency{}, id).Error
}

// Company rates

func (r *CurrencyRepository) CreateCompanyRate(rate *currency.CompanyRate) error {
	return r.db.Create(rate).Error
}

func (r *CurrencyRepository) GetCompanyRateByID(id int64) (*currency.CompanyRate, error) {
	var rate currency.CompanyRate
	err := r.db.Where("id = ?", id).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *CurrencyRepository) GetCompanyRate(companyID, groupID int64) (*currency.CompanyRate, error) {
	var rate currency.CompanyRate
	err := r.db.Where("company_id = ? AND group_id = ?", companyID, groupID).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *CurrencyRepository) GetCompanyRates(companyID int64) ([]*currency.CompanyRate, error) {
	var rates []*currency.CompanyRate
	err := r.db.Where("company_id = ?", companyID).Order("group_id ASC").Find(&rates).Error
	return rates, err
}

func (r *CurrencyRepository) UpdateCompanyRate(rate *currency.CompanyRate) error {
	rate.UpdatedAt = time.Now()
	return r.db.Save(rate).Error
}

func (r *CurrencyRepository) DeleteCompanyRate(id int64) error {
	return r.db.Delete(&currency.CompanyRate{}, id).Error
}

// Plan rates

func (r *CurrencyRepository) CreatePlanRate(rate *currency.PlanRate) error {
	return r.db.Create(rate).Error
}

func (r *CurrencyRepository) GetPlanRateByID(id int64) (*currency.PlanRate, error) {
	var rate currency.PlanRate
	err := r.db.Where("id = ?", id).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *CurrencyRepository) GetPlanRate(planID, groupID int64) (*currency.PlanRate, error) {
	var rate currency.PlanRate
	err := r.db.Where("plan_id = ? AND group_id = ?", planID, groupID).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *CurrencyRepository) GetPlanRates(planID int64) ([]*currency.PlanRate, error) {
	var rates []*currency.PlanRate
	err := r.db.Where("plan_id = ?", planID).Order("group_id ASC").Find(&rates).Error
	return rates, err
}

func (r *CurrencyRepository) UpdatePlanRate(rate *currency.PlanRate) error {
	rate.UpdatedAt = time.Now()
	return r.db.Save(rate).Error
}

func (r *CurrencyRepository) DeletePlanRate(id int64) error {
	return r.db.Delete(&currency.PlanRate{}, id).Error
}

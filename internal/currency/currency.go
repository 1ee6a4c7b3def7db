package currency

import (
	"time"

	"github.com/shopspring/decimal"
)

// Group is a named bucket of currencies sharing one conversion-rate record
// per company (and per plan).
type Group struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Group) TableName() string {
	return "currency_groups"
}

// Currency belongs to exactly one group at a time; changing GroupID moves it.
type Currency struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"column:code;uniqueIndex;not null;size:3"`
	Name      string    `json:"name" gorm:"column:name"`
	GroupID   int64     `json:"group_id" gorm:"column:group_id;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Currency) TableName() string {
	return "currencies"
}

// CompanyRate is a company's rate for one group. ConversionRate is always
// awRate + mpRate, recomputed whenever either component changes; it is never
// set directly. At most one active record per (company, group), enforced by
// a unique constraint.
type CompanyRate struct {
	ID             int64           `json:"id" gorm:"primaryKey"`
	CompanyID      int64           `json:"company_id" gorm:"column:company_id;not null;uniqueIndex:idx_company_group"`
	GroupID        int64           `json:"group_id" gorm:"column:group_id;not null;uniqueIndex:idx_company_group"`
	AwRate         decimal.Decimal `json:"aw_rate" gorm:"column:aw_rate;type:decimal(20,10);not null"`
	MpRate         decimal.Decimal `json:"mp_rate" gorm:"column:mp_rate;type:decimal(20,10);not null"`
	ConversionRate decimal.Decimal `json:"conversion_rate" gorm:"column:conversion_rate;type:decimal(20,10);not null"`
	IsActive       bool            `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt      time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (CompanyRate) TableName() string {
	return "company_currency_rates"
}

// PlanRate mirrors CompanyRate for subscription plans.
type PlanRate struct {
	ID             int64           `json:"id" gorm:"primaryKey"`
	PlanID         int64           `json:"plan_id" gorm:"column:plan_id;not null;uniqueIndex:idx_plan_group"`
	GroupID        int64           `json:"group_id" gorm:"column:group_id;not null;uniqueIndex:idx_plan_group"`
	AwRate         decimal.Decimal `json:"aw_rate" gorm:"column:aw_rate;type:decimal(20,10);not null"`
	MpRate         decimal.Decimal `json:"mp_rate" gorm:"column:mp_rate;type:decimal(20,10);not null"`
	ConversionRate decimal.Decimal `json:"conversion_rate" gorm:"column:conversion_rate;type:decimal(20,10);not null"`
	IsActive       bool            `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt      time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (PlanRate) TableName() string {
	return "plan_currency_rates"
}

// ConversionResult is the outcome of a rate lookup for a (from, to) pair.
type ConversionResult struct {
	Rate            decimal.Decimal `json:"rate"`
	IsCrossGroup    bool            `json:"isCrossGroup"`
	SelectedGroupID int64           `json:"selectedGroupId"`
	FromGroupID     int64           `json:"fromGroupId"`
	ToGroupID       int64           `json:"toGroupId"`
}

package company

import "time"

// Company holds the external payments-provider account id assigned at
// registration time. It is never reassigned afterwards.
type Company struct {
	ID                 int64     `json:"id" gorm:"primaryKey"`
	Name               string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	PhoneNumber        string    `json:"phone_number" gorm:"column:phone_number;uniqueIndex;not null"`
	AirwallexAccountID string    `json:"airwallex_account_id" gorm:"column:airwallex_account_id"`
	IsActive           bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt          time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Company) TableName() string {
	return "companies"
}

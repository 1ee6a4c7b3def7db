package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type CreateGroupDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d *CreateGroupDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}

type UpdateGroupDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreateCurrencyDTO struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	GroupID int64  `json:"group_id"`
}

func (d *CreateCurrencyDTO) Validate() error {
	code := strings.ToUpper(strings.TrimSpace(d.Code))
	if len(code) != 3 {
		return ValidationError{Field: "code", Message: "code must be a 3-letter ISO code"}
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return ValidationError{Field: "code", Message: "code must be a 3-letter ISO code"}
		}
	}
	d.Code = code
	if d.GroupID <= 0 {
		return ValidationError{Field: "group_id", Message: "group_id is required"}
	}
	return nil
}

type UpdateCurrencyDTO struct {
	Name    *string `json:"name"`
	GroupID *int64  `json:"group_id"`
}

// CreateRateDTO carries the two rate components; the stored conversion rate
// is always derived from them server-side.
type CreateRateDTO struct {
	CompanyID int64           `json:"company_id"`
	GroupID   int64           `json:"group_id"`
	AwRate    decimal.Decimal `json:"aw_rate"`
	MpRate    decimal.Decimal `json:"mp_rate"`
}

func (d *CreateRateDTO) Validate() error {
	if d.CompanyID <= 0 {
		return ValidationError{Field: "company_id", Message: "company_id is required"}
	}
	if d.GroupID <= 0 {
		return ValidationError{Field: "group_id", Message: "group_id is required"}
	}
	if d.AwRate.IsNegative() {
		return ValidationError{Field: "aw_rate", Message: "aw_rate must not be negative"}
	}
	if d.MpRate.IsNegative() {
		return ValidationError{Field: "mp_rate", Message: "mp_rate must not be negative"}
	}
	return nil
}

type UpdateRateDTO struct {
	AwRate   *decimal.Decimal `json:"aw_rate"`
	MpRate   *decimal.Decimal `json:"mp_rate"`
	IsActive *bool            `json:"is_active"`
}

func (d *UpdateRateDTO) Validate() error {
	if d.AwRate != nil && d.AwRate.IsNegative() {
		return ValidationError{Field: "aw_rate", Message: "aw_rate must not be negative"}
	}
	if d.MpRate != nil && d.MpRate.IsNegative() {
		return ValidationError{Field: "mp_rate", Message: "mp_rate must not be negative"}
	}
	return nil
}

type CreatePlanRateDTO struct {
	PlanID  int64           `json:"plan_id"`
	GroupID int64           `json:"group_id"`
	AwRate  decimal.Decimal `json:"aw_rate"`
	MpRate  decimal.Decimal `json:"mp_rate"`
}

func (d *CreatePlanRateDTO) Validate() error {
	if d.PlanID <= 0 {
		return ValidationError{Field: "plan_id", Message: "plan_id is required"}
	}
	if d.GroupID <= 0 {
		return ValidationError{Field: "group_id", Message: "group_id is required"}
	}
	if d.AwRate.IsNegative() {
		return ValidationError{Field: "aw_rate", Message: "aw_rate must not be negative"}
	}
	if d.MpRate.IsNegative() {
		return ValidationError{Field: "mp_rate", Message: "mp_rate must not be negative"}
	}
	return nil
}

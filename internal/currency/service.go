package currency

import (
	"log/slog"
	"strings"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/company"
)

type Repository interface {
	CreateGroup(g *Group) error
	GetGroupByID(id int64) (*Group, error)
	GetGroupByName(name string) (*Group, error)
	GetAllGroups() ([]*Group, error)
	UpdateGroup(g *Group) error
	DeleteGroup(id int64) error

	CreateCurrency(c *Currency) error
	GetCurrencyByID(id int64) (*Currency, error)
	GetCurrencyByCode(code string) (*Currency, error)
	GetAllCurrencies() ([]*Currency, error)
	GetCurrenciesByGroup(groupID int64) ([]*Currency, error)
	UpdateCurrency(c *Currency) error
	DeleteCurrency(id int64) error

	CreateCompanyRate(r *CompanyRate) error
	GetCompanyRateByID(id int64) (*CompanyRate, error)
	GetCompanyRate(companyID, groupID int64) (*CompanyRate, error)
	GetCompanyRates(companyID int64) ([]*CompanyRate, error)
	UpdateCompanyRate(r *CompanyRate) error
	DeleteCompanyRate(id int64) error

	CreatePlanRate(r *PlanRate) error
	GetPlanRateByID(id int64) (*PlanRate, error)
	GetPlanRate(planID, groupID int64) (*PlanRate, error)
	GetPlanRates(planID int64) ([]*PlanRate, error)
	UpdatePlanRate(r *PlanRate) error
	DeletePlanRate(id int64) error
}

// CompanyResolver maps an external payment-provider account ID back to a
// local company, for rate lookups keyed by the provider's identifier.
type CompanyResolver interface {
	GetByAirwallexAccountID(accountID string) (*company.Company, error)
}

type Service struct {
	repo      Repository
	companies CompanyResolver
	logger    *slog.Logger
}

func NewService(repo Repository, companies CompanyResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		companies: companies,
		logger:    logger,
	}
}

// Groups

func (s *Service) CreateGroup(dto *CreateGroupDTO) (*Group, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	existing, err := s.repo.GetGroupByName(dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check group name", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateGroup
	}

	g := &Group{Name: dto.Name, Description: dto.Description}
	if err := s.repo.CreateGroup(g); err != nil {
		s.logger.Error("failed to create currency group", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create currency group", err)
	}
	return g, nil
}

func (s *Service) GetGroup(id int64) (*Group, error) {
	g, err := s.repo.GetGroupByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get currency group", err)
	}
	if g == nil {
		return nil, internal.ErrGroupNotFound
	}
	return g, nil
}

func (s *Service) GetAllGroups() ([]*Group, error) {
	groups, err := s.repo.GetAllGroups()
	if err != nil {
		return nil, internal.NewInternalError("failed to list currency groups", err)
	}
	return groups, nil
}

func (s *Service) UpdateGroup(id int64, dto *UpdateGroupDTO) (*Group, error) {
	g, err := s.GetGroup(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, internal.NewValidationError("name must not be empty")
		}
		if name != g.Name {
			existing, err := s.repo.GetGroupByName(name)
			if err != nil {
				return nil, internal.NewInternalError("failed to check group name", err)
			}
			if existing != nil {
				return nil, internal.ErrDuplicateGroup
			}
		}
		g.Name = name
	}
	if dto.Description != nil {
		g.Description = *dto.Description
	}

	if err := s.repo.UpdateGroup(g); err != nil {
		return nil, internal.NewInternalError("failed to update currency group", err)
	}
	return g, nil
}

// DeleteGroup refuses to remove a group that still has member currencies,
// so no currency can be left without a group.
func (s *Service) DeleteGroup(id int64) error {
	if _, err := s.GetGroup(id); err != nil {
		return err
	}

	members, err := s.repo.GetCurrenciesByGroup(id)
	if err != nil {
		return internal.NewInternalError("failed to check group members", err)
	}
	if len(members) > 0 {
		return internal.ErrGroupNotEmpty
	}

	if err := s.repo.DeleteGroup(id); err != nil {
		return internal.NewInternalError("failed to delete currency group", err)
	}
	return nil
}

// Currencies

func (s *Service) CreateCurrency(dto *CreateCurrencyDTO) (*Currency, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	if _, err := s.GetGroup(dto.GroupID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetCurrencyByCode(dto.Code)
	if err != nil {
		return nil, internal.NewInternalError("failed to check currency code", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateCurrency
	}

	c := &Currency{Code: dto.Code, Name: dto.Name, GroupID: dto.GroupID}
	if err := s.repo.CreateCurrency(c); err != nil {
		s.logger.Error("failed to create currency", "error", err, "code", dto.Code)
		return nil, internal.NewInternalError("failed to create currency", err)
	}
	return c, nil
}

func (s *Service) GetCurrency(id int64) (*Currency, error) {
	c, err := s.repo.GetCurrencyByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get currency", err)
	}
	if c == nil {
		return nil, internal.ErrCurrencyNotFound
	}
	return c, nil
}

func (s *Service) GetAllCurrencies() ([]*Currency, error) {
	currencies, err := s.repo.GetAllCurrencies()
	if err != nil {
		return nil, internal.NewInternalError("failed to list currencies", err)
	}
	return currencies, nil
}

// UpdateCurrency may move a currency to another group; membership is
// exclusive, so setting GroupID reassigns rather than duplicates.
func (s *Service) UpdateCurrency(id int64, dto *UpdateCurrencyDTO) (*Currency, error) {
	c, err := s.GetCurrency(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.GroupID != nil {
		if _, err := s.GetGroup(*dto.GroupID); err != nil {
			return nil, err
		}
		c.GroupID = *dto.GroupID
	}

	if err := s.repo.UpdateCurrency(c); err != nil {
		return nil, internal.NewInternalError("failed to update currency", err)
	}
	return c, nil
}

func (s *Service) DeleteCurrency(id int64) error {
	if _, err := s.GetCurrency(id); err != nil {
		return err
	}
	if err := s.repo.DeleteCurrency(id); err != nil {
		return internal.NewInternalError("failed to delete currency", err)
	}
	return nil
}

// Company rates

func (s *Service) CreateCompanyRate(dto *CreateRateDTO) (*CompanyRate, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	if _, err := s.GetGroup(dto.GroupID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetCompanyRate(dto.CompanyID, dto.GroupID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check existing rate", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateRate
	}

	r := &CompanyRate{
		CompanyID:      dto.CompanyID,
		GroupID:        dto.GroupID,
		AwRate:         dto.AwRate,
		MpRate:         dto.MpRate,
		ConversionRate: dto.AwRate.Add(dto.MpRate),
		IsActive:       true,
	}
	if err := s.repo.CreateCompanyRate(r); err != nil {
		s.logger.Error("failed to create company rate", "error", err,
			"company_id", dto.CompanyID, "group_id", dto.GroupID)
		return nil, internal.NewInternalError("failed to create company rate", err)
	}
	return r, nil
}

func (s *Service) GetCompanyRateByID(id int64) (*CompanyRate, error) {
	r, err := s.repo.GetCompanyRateByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get company rate", err)
	}
	if r == nil {
		return nil, internal.ErrRateNotFound
	}
	return r, nil
}

func (s *Service) GetCompanyRates(companyID int64) ([]*CompanyRate, error) {
	rates, err := s.repo.GetCompanyRates(companyID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list company rates", err)
	}
	return rates, nil
}

func (s *Service) UpdateCompanyRate(id int64, dto *UpdateRateDTO) (*CompanyRate, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	r, err := s.GetCompanyRateByID(id)
	if err != nil {
		return nil, err
	}

	if dto.AwRate != nil {
		r.AwRate = *dto.AwRate
	}
	if dto.MpRate != nil {
		r.MpRate = *dto.MpRate
	}
	if dto.IsActive != nil {
		r.IsActive = *dto.IsActive
	}
	// derived, never taken from the request
	r.ConversionRate = r.AwRate.Add(r.MpRate)

	if err := s.repo.UpdateCompanyRate(r); err != nil {
		return nil, internal.NewInternalError("failed to update company rate", err)
	}
	return r, nil
}

func (s *Service) DeleteCompanyRate(id int64) error {
	if _, err := s.GetCompanyRateByID(id); err != nil {
		return err
	}
	if err := s.repo.DeleteCompanyRate(id); err != nil {
		return internal.NewInternalError("failed to delete company rate", err)
	}
	return nil
}

// Plan rates

func (s *Service) CreatePlanRate(dto *CreatePlanRateDTO) (*PlanRate, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	if _, err := s.GetGroup(dto.GroupID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetPlanRate(dto.PlanID, dto.GroupID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check existing rate", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateRate
	}

	r := &PlanRate{
		PlanID:         dto.PlanID,
		GroupID:        dto.GroupID,
		AwRate:         dto.AwRate,
		MpRate:         dto.MpRate,
		ConversionRate: dto.AwRate.Add(dto.MpRate),
		IsActive:       true,
	}
	if err := s.repo.CreatePlanRate(r); err != nil {
		return nil, internal.NewInternalError("failed to create plan rate", err)
	}
	return r, nil
}

func (s *Service) GetPlanRates(planID int64) ([]*PlanRate, error) {
	rates, err := s.repo.GetPlanRates(planID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list plan rates", err)
	}
	return rates, nil
}

func (s *Service) UpdatePlanRate(id int64, dto *UpdateRateDTO) (*PlanRate, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	r, err := s.repo.GetPlanRateByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get plan rate", err)
	}
	if r == nil {
		return nil, internal.ErrRateNotFound
	}

	if dto.AwRate != nil {
		r.AwRate = *dto.AwRate
	}
	if dto.MpRate != nil {
		r.MpRate = *dto.MpRate
	}
	if dto.IsActive != nil {
		r.IsActive = *dto.IsActive
	}
	r.ConversionRate = r.AwRate.Add(r.MpRate)

	if err := s.repo.UpdatePlanRate(r); err != nil {
		return nil, internal.NewInternalError("failed to update plan rate", err)
	}
	return r, nil
}

func (s *Service) DeletePlanRate(id int64) error {
	r, err := s.repo.GetPlanRateByID(id)
	if err != nil {
		return internal.NewInternalError("failed to get plan rate", err)
	}
	if r == nil {
		return internal.ErrRateNotFound
	}
	if err := s.repo.DeletePlanRate(id); err != nil {
		return internal.NewInternalError("failed to delete plan rate", err)
	}
	return nil
}

// Resolution

// ResolveCompanyRate picks the conversion rate a company pays for a
// (from, to) currency pair.
//
// Same group: the single rate for that group applies. Cross group: both
// groups must have an active rate, and the larger of the two wins. The
// comparison is strictly-greater, so on an exact tie the target currency's
// group is selected.
func (s *Service) ResolveCompanyRate(companyID int64, fromCode, toCode string) (*ConversionResult, error) {
	fromCur, toCur, err := s.lookupPair(fromCode, toCode)
	if err != nil {
		return nil, err
	}

	if fromCur.GroupID == toCur.GroupID {
		rate, err := s.activeCompanyRate(companyID, fromCur.GroupID)
		if err != nil {
			return nil, err
		}
		return &ConversionResult{
			Rate:            rate.ConversionRate,
			IsCrossGroup:    false,
			SelectedGroupID: fromCur.GroupID,
			FromGroupID:     fromCur.GroupID,
			ToGroupID:       toCur.GroupID,
		}, nil
	}

	fromRate, err := s.activeCompanyRate(companyID, fromCur.GroupID)
	if err != nil {
		return nil, err
	}
	toRate, err := s.activeCompanyRate(companyID, toCur.GroupID)
	if err != nil {
		return nil, err
	}

	selected := toRate
	selectedGroup := toCur.GroupID
	if fromRate.ConversionRate.GreaterThan(toRate.ConversionRate) {
		selected = fromRate
		selectedGroup = fromCur.GroupID
	}

	return &ConversionResult{
		Rate:            selected.ConversionRate,
		IsCrossGroup:    true,
		SelectedGroupID: selectedGroup,
		FromGroupID:     fromCur.GroupID,
		ToGroupID:       toCur.GroupID,
	}, nil
}

// ResolveByAirwallexAccount is the same lookup keyed by the payment
// provider's account ID instead of the local company ID.
func (s *Service) ResolveByAirwallexAccount(accountID, fromCode, toCode string) (*ConversionResult, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, internal.NewValidationError("account_id is required")
	}

	c, err := s.companies.GetByAirwallexAccountID(accountID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up company", err)
	}
	if c == nil {
		return nil, internal.ErrCompanyNotFound
	}

	return s.ResolveCompanyRate(c.ID, fromCode, toCode)
}

func (s *Service) lookupPair(fromCode, toCode string) (*Currency, *Currency, error) {
	fromCode = strings.ToUpper(strings.TrimSpace(fromCode))
	toCode = strings.ToUpper(strings.TrimSpace(toCode))
	if fromCode == "" || toCode == "" {
		return nil, nil, internal.NewValidationError("from and to currencies are required")
	}

	fromCur, err := s.repo.GetCurrencyByCode(fromCode)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to get currency", err)
	}
	if fromCur == nil {
		return nil, nil, internal.ErrCurrencyNotFound
	}

	toCur, err := s.repo.GetCurrencyByCode(toCode)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to get currency", err)
	}
	if toCur == nil {
		return nil, nil, internal.ErrCurrencyNotFound
	}

	return fromCur, toCur, nil
}

func (s *Service) activeCompanyRate(companyID, groupID int64) (*CompanyRate, error) {
	rate, err := s.repo.GetCompanyRate(companyID, groupID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get company rate", err)
	}
	if rate == nil || !rate.IsActive {
		return nil, internal.ErrRateNotFound
	}
	return rate, nil
}

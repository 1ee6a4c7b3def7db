package currency

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/transport"
	"github.com/frahmantamala/merchant-management/pkg/logger"
)

type ServiceAPI interface {
	CreateGroup(dto *CreateGroupDTO) (*Group, error)
	GetGroup(id int64) (*Group, error)
	GetAllGroups() ([]*Group, error)
	UpdateGroup(id int64, dto *UpdateGroupDTO) (*Group, error)
	DeleteGroup(id int64) error

	CreateCurrency(dto *CreateCurrencyDTO) (*Currency, error)
	GetCurrency(id int64) (*Currency, error)
	GetAllCurrencies() ([]*Currency, error)
	UpdateCurrency(id int64, dto *UpdateCurrencyDTO) (*Currency, error)
	DeleteCurrency(id int64) error

	CreateCompanyRate(dto *CreateRateDTO) (*CompanyRate, error)
	GetCompanyRates(companyID int64) ([]*CompanyRate, error)
	UpdateCompanyRate(id int64, dto *UpdateRateDTO) (*CompanyRate, error)
	DeleteCompanyRate(id int64) error

	CreatePlanRate(dto *CreatePlanRateDTO) (*PlanRate, error)
	GetPlanRates(planID int64) ([]*PlanRate, error)
	UpdatePlanRate(id int64, dto *UpdateRateDTO) (*PlanRate, error)
	DeletePlanRate(id int64) error

	ResolveCompanyRate(companyID int64, fromCode, toCode string) (*ConversionResult, error)
	ResolveByAirwallexAccount(accountID, fromCode, toCode string) (*ConversionResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Groups

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var dto CreateGroupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	g, err := h.Service.CreateGroup(&dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "currency group created", g)
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	g, err := h.Service.GetGroup(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "currency group retrieved", g)
}

func (h *Handler) GetAllGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.GetAllGroups()
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "currency groups retrieved", groups)
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	var dto UpdateGroupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	g, err := h.Service.UpdateGroup(id, &dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "currency group updated", g)
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	if err := h.Service.DeleteGroup(id); err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "currency group deleted", nil)
}

// Currencies

func (h *Handler) CreateCurrency(w http.ResponseWriter, r *http.Request) {
	var dto CreateCurrencyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	c, err := h.Service.CreateCurrency(&dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "currency created", c)
}

func (h *Handler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	c, err := h.Service.GetCurrency(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "currency retrieved", c)
}

func (h *Handler) GetAllCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.Service.GetAllCurrencies()
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "currencies retrieved", currencies)
}

func (h *Handler) UpdateCurrency(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	var dto UpdateCurrencyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	c, err := h.Service.UpdateCurrency(id, &dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "currency updated", c)
}

func (h *Handler) DeleteCurrency(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	if err := h.Service.DeleteCurrency(id); err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "currency deleted", nil)
}

// Company rates

func (h *Handler) CreateCompanyRate(w http.ResponseWriter, r *http.Request) {
	var dto CreateRateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	rate, err := h.Service.CreateCompanyRate(&dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "company rate created", rate)
}

func (h *Handler) GetCompanyRates(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.pathID(r, "companyId")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	rates, err := h.Service.GetCompanyRates(companyID)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "company rates retrieved", rates)
}

func (h *Handler) UpdateCompanyRate(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	var dto UpdateRateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	rate, err := h.Service.UpdateCompanyRate(id, &dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "company rate updated", rate)
}

func (h *Handler) DeleteCompanyRate(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	if err := h.Service.DeleteCompanyRate(id); err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "company rate deleted", nil)
}

// Plan rates

func (h *Handler) CreatePlanRate(w http.ResponseWriter, r *http.Request) {
	var dto CreatePlanRateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	rate, err := h.Service.CreatePlanRate(&dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "plan rate created", rate)
}

func (h *Handler) GetPlanRates(w http.ResponseWriter, r *http.Request) {
	planID, err := h.pathID(r, "planId")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	rates, err := h.Service.GetPlanRates(planID)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "plan rates retrieved", rates)
}

func (h *Handler) UpdatePlanRate(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	var dto UpdateRateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	rate, err := h.Service.UpdatePlanRate(id, &dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "plan rate updated", rate)
}

func (h *Handler) DeletePlanRate(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	if err := h.Service.DeletePlanRate(id); err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "plan rate deleted", nil)
}

// Resolution

// Convert resolves the rate for the company in the path, ?from=&to=.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.pathID(r, "companyId")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	result, err := h.Service.ResolveCompanyRate(companyID,
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "conversion rate resolved", result)
}

// ConvertByAccount resolves the rate for the company owning the given
// payment-provider account: ?from=&to= with the account ID in the path.
func (h *Handler) ConvertByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	result, err := h.Service.ResolveByAirwallexAccount(accountID,
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "conversion rate resolved", result)
}

func (h *Handler) pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationError("invalid id")
	}
	return id, nil
}

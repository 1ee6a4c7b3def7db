package webhook

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
	CreateEventType(dto *CreateEventTypeDTO) (*EventType, error)
	GetEventType(id int64) (*EventType, error)
	GetAllEventTypes() ([]*EventType, error)
	UpdateEventType(id int64, dto *UpdateEventTypeDTO) (*EventType, error)
	DeleteEventType(id int64) error

	GetChannels() ([]*Channel, error)
	GetLocales() ([]*Locale, error)

	CreateTemplate(dto *CreateTemplateDTO) (*Template, error)
	GetTemplate(id int64) (*Template, error)
	GetTemplatesByEventType(eventTypeID int64) ([]*Template, error)
	UpdateTemplate(id int64, dto *UpdateTemplateDTO) (*Template, error)
	DeleteTemplate(id int64) error

	CreateRule(dto *CreateRuleDTO) (*ProcessingRule, error)
	GetRule(id int64) (*ProcessingRule, error)
	GetRulesByEventType(eventTypeID int64) ([]*ProcessingRule, error)
	UpdateRule(id int64, dto *UpdateRuleDTO) (*ProcessingRule, error)
	DeleteRule(id int64) error

	Evaluate(eventTypeID int64, dto *EvaluateDTO) (*EvaluationResult, error)
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

// Event types

func (h *Handler) CreateEventType(w http.ResponseWriter, r *http.Request) {
	var dto CreateEventTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	et, err := h.Service.CreateEventType(&dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "event type created", et)
}

func (h *Handler) GetEventType(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	et, err := h.Service.GetEventType(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "event type retrieved", et)
}

func (h *Handler) GetAllEventTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.GetAllEventTypes()
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "event types retrieved", types)
}

func (h *Handler) UpdateEventType(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	var dto UpdateEventTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	et, err := h.Service.UpdateEventType(id, &dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "event type updated", et)
}

func (h *Handler) DeleteEventType(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	if err := h.Service.DeleteEventType(id); err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "event type deleted", nil)
}

// Reference data

func (h *Handler) GetChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.Service.GetChannels()
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "channels retrieved", channels)
}

func (h *Handler) GetLocales(w http.ResponseWriter, r *http.Request) {
	locales, err := h.Service.GetLocales()
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "locales retrieved", locales)
}

// GetRefs returns channels and locales in one response so clients can
// populate template forms with a single call.
func (h *Handler) GetRefs(w http.ResponseWriter, r *http.Request) {
	channels, err := h.Service.GetChannels()
	if err != nil {
		h.WriteError(w, err)
		return
	}

	locales, err := h.Service.GetLocales()
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "reference data retrieved", RefsResponse{
		Channels: channels,
		Locales:  locales,
	})
}

// Templates

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var dto CreateTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	t, err := h.Service.CreateTemplate(&dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "template created", t)
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	t, err := h.Service.GetTemplate(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "template retrieved", t)
}

func (h *Handler) GetTemplatesByEventType(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	templates, err := h.Service.GetTemplatesByEventType(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "templates retrieved", templates)
}

func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	var dto UpdateTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	t, err := h.Service.UpdateTemplate(id, &dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "template updated", t)
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	if err := h.Service.DeleteTemplate(id); err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "template deleted", nil)
}

// Rules

func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var dto CreateRuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	rule, err := h.Service.CreateRule(&dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "processing rule created", rule)
}

func (h *Handler) GetRule(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	rule, err := h.Service.GetRule(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "processing rule retrieved", rule)
}

func (h *Handler) GetRulesByEventType(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	rules, err := h.Service.GetRulesByEventType(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "processing rules retrieved", rules)
}

func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	var dto UpdateRuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	rule, err := h.Service.UpdateRule(id, &dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "processing rule updated", rule)
}

func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	if err := h.Service.DeleteRule(id); err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "processing rule deleted", nil)
}

// Evaluate runs a sample payload through an event type's rules without
// side effects, for testing rule setups.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	var dto EvaluateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	result, err := h.Service.Evaluate(id, &dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "rules evaluated", result)
}

func (h *Handler) pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationError("invalid id")
	}
	return id, nil
}

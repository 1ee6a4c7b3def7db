package auditlog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/transport"
	"github.com/frahmantamala/merchant-management/pkg/logger"
)

type ServiceAPI interface {
	RecordExternal(dto ExternalLogDTO) (*Log, error)
	GetAll(limit int) ([]*Log, error)
	GetPaginated(page, perPage int) ([]*Log, int64, error)
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

func (h *Handler) CreateExternal(w http.ResponseWriter, r *http.Request) {
	var dto ExternalLogDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	log, err := h.Service.RecordExternal(dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "log recorded", log)
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.Service.GetAll(limit)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "logs retrieved", logs)
}

func (h *Handler) GetPaginated(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	logs, total, err := h.Service.GetPaginated(page, perPage)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WritePage(w, logs, transport.NewPageMeta(total, page, perPage))
}

package user

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
	Create(dto CreateUserDTO) (*User, error)
	GetByID(id int64) (*User, error)
	GetAll() ([]*User, error)
	GetPaginated(page, perPage int) ([]*User, int64, error)
	GetByUserType(userTypeID int64) ([]*User, error)
	Update(id int64, dto UpdateUserDTO) (*User, error)
	Delete(id int64) error
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	u, err := h.Service.Create(dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "user created", u)
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAll()
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "users retrieved", users)
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

	users, total, err := h.Service.GetPaginated(page, perPage)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WritePage(w, users, transport.NewPageMeta(total, page, perPage))
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	u, err := h.Service.GetByID(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "user retrieved", u)
}

func (h *Handler) GetByUserType(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	users, err := h.Service.GetByUserType(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "users retrieved", users)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}

	u, err := h.Service.Update(id, dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "user updated", u)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, err)
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "user deleted", nil)
}

func (h *Handler) pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationError("invalid id")
	}
	return id, nil
}

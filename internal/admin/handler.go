package admin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/transport"
	"github.com/frahmantamala/merchant-management/internal/user"
	"github.com/frahmantamala/merchant-management/pkg/logger"
)

type ServiceAPI interface {
	GetStats() (*Stats, error)
	GetAllUsers() ([]*user.User, error)
	ReactivateUser(id int64) (*user.User, error)
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

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.GetStats()
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "stats retrieved", stats)
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAllUsers()
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "users retrieved", users)
}

func (h *Handler) ReactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, internal.NewValidationError("invalid id"))
		return
	}

	u, err := h.Service.ReactivateUser(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "user reactivated", u)
}

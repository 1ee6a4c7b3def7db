package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/pkg/logger"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageMeta describes one page of a paginated listing.
type PageMeta struct {
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
}

type Page struct {
	Data interface{} `json:"data"`
	Meta PageMeta    `json:"meta"`
}

func NewPageMeta(totalItems int64, page, perPage int) PageMeta {
	totalPages := int(totalItems) / perPage
	if int(totalItems)%perPage != 0 {
		totalPages++
	}
	return PageMeta{
		TotalItems:   totalItems,
		ItemsPerPage: perPage,
		TotalPages:   totalPages,
		CurrentPage:  page,
	}
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteData writes a success envelope.
func (h *BaseHandler) WriteData(w http.ResponseWriter, status int, message string, data interface{}) {
	h.writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WritePage writes a pagination envelope.
func (h *BaseHandler) WritePage(w http.ResponseWriter, data interface{}, meta PageMeta) {
	h.writeJSON(w, http.StatusOK, Page{Data: data, Meta: meta})
}

// WriteError maps an error to its HTTP status and writes a failure envelope.
// AppErrors carry their own status; anything else is a 500.
func (h *BaseHandler) WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := internal.IsAppError(err); ok {
		status = appErr.StatusCode
		message = appErr.Message
	}

	if status >= 500 {
		h.Logger.Error("http error", "status", status, "error", err)
	} else {
		h.Logger.Warn("http error", "status", status, "error", err)
	}

	h.writeJSON(w, status, Envelope{Success: false, Message: message, Data: nil})
}

func (h *BaseHandler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}

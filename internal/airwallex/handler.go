package airwallex

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/transport"
	"github.com/frahmantamala/merchant-management/pkg/logger"
)

// maxUploadBytes caps document uploads at 10 MiB.
const maxUploadBytes = 10 << 20

type FileAPI interface {
	UploadFile(ctx context.Context, fileName string, content io.Reader) (*FileDescriptor, error)
	GetDownloadLink(ctx context.Context, fileID string) (*DownloadLink, error)
	GetDownloadLinks(ctx context.Context, fileIDs []string) ([]*DownloadLink, error)
}

// Handler proxies file operations to the payments provider so browser
// clients never hold provider credentials.
type Handler struct {
	*transport.BaseHandler
	Files FileAPI
}

func NewHandler(files FileAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Files:       files,
	}
}

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid multipart request"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, internal.NewValidationError("file field is required"))
		return
	}
	defer file.Close()

	descriptor, err := h.Files.UploadFile(r.Context(), header.Filename, file)
	if err != nil {
		h.WriteError(w, internal.NewExternalError("file upload failed", err))
		return
	}

	h.WriteData(w, http.StatusCreated, "file uploaded", descriptor)
}

func (h *Handler) GetDownloadLink(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileId")
	if fileID == "" {
		h.WriteError(w, internal.NewValidationError("invalid file id"))
		return
	}

	link, err := h.Files.GetDownloadLink(r.Context(), fileID)
	if err != nil {
		h.WriteError(w, internal.NewExternalError("download link request failed", err))
		return
	}

	h.WriteData(w, http.StatusOK, "download link retrieved", link)
}

type downloadLinksRequest struct {
	FileIDs []string `json:"file_ids"`
}

func (h *Handler) GetDownloadLinks(w http.ResponseWriter, r *http.Request) {
	var req downloadLinksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body"))
		return
	}
	if len(req.FileIDs) == 0 {
		h.WriteError(w, internal.NewValidationError("file_ids is required"))
		return
	}

	links, err := h.Files.GetDownloadLinks(r.Context(), req.FileIDs)
	if err != nil {
		h.WriteError(w, internal.NewExternalError("download link request failed", err))
		return
	}

	h.WriteData(w, http.StatusOK, "download links retrieved", links)
}

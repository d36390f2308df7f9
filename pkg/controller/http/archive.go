package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/interfaces"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/model"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	// Multipart framing overhead allowed on top of the file itself.
	uploadBodySlack = 1 << 20
)

// ArchiveHandler handles archive upload, listing, and content requests.
type ArchiveHandler struct {
	archiveUC     interfaces.ArchiveUseCase
	maxUploadSize int64
}

// NewArchiveHandler creates a new ArchiveHandler
func NewArchiveHandler(archiveUC interfaces.ArchiveUseCase, maxUploadSize int64) *ArchiveHandler {
	return &ArchiveHandler{
		archiveUC:     archiveUC,
		maxUploadSize: maxUploadSize,
	}
}

// Upload accepts a multipart upload with a "file" part and an optional
// "classification" field.
func (h *ArchiveHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+uploadBodySlack)

	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, goerr.Wrap(err, "missing or unreadable file part",
			goerr.T(types.TagValidation)))
		return
	}
	defer file.Close()

	input := &model.UploadInput{
		FileName:       header.Filename,
		Size:           header.Size,
		ContentType:    header.Header.Get("Content-Type"),
		Classification: r.FormValue("classification"),
		Data:           file,
	}

	record, err := h.archiveUC.Upload(ctx, input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// List returns archive records, newest first.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			handleError(w, r, goerr.New("invalid limit parameter",
				goerr.T(types.TagValidation), goerr.V("limit", raw)))
			return
		}
		limit = min(n, maxListLimit)
	}

	records, err := h.archiveUC.List(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if records == nil {
		records = []*model.UploadedArchive{}
	}

	writeJSON(w, http.StatusOK, records)
}

// Get returns one archive record.
func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := types.ArchiveID(chi.URLParam(r, "archiveID"))

	record, err := h.archiveUC.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Delete removes an archive record together with its blob.
func (h *ArchiveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := types.ArchiveID(chi.URLParam(r, "archiveID"))

	if err := h.archiveUC.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(context.Background()).Error("Failed to encode response", "error", err)
	}
}

package http

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

const (
	manifestCacheControl = "public, max-age=86400"
	memberCacheControl   = "public, max-age=31536000, immutable"
)

// Manifest serves the rewritten scene manifest of an archive.
func (h *ArchiveHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	id := types.ArchiveID(chi.URLParam(r, "archiveID"))

	resource, err := h.archiveUC.Manifest(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", manifestCacheControl)
	serveResource(w, r, resource.ContentType, resource.ETag, resource.Data)
}

// Member serves one archive member. The wildcard path may contain slashes
// and percent-encoded characters.
func (h *ArchiveHandler) Member(w http.ResponseWriter, r *http.Request) {
	id := types.ArchiveID(chi.URLParam(r, "archiveID"))

	memberPath := chi.URLParam(r, "*")
	if decoded, err := url.PathUnescape(memberPath); err == nil {
		memberPath = decoded
	}
	if memberPath == "" {
		handleError(w, r, goerr.Wrap(types.ErrNotFound, "empty member path"))
		return
	}

	resource, err := h.archiveUC.Member(r.Context(), id, memberPath)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", memberCacheControl)
	serveResource(w, r, resource.ContentType, resource.ETag, resource.Data)
}

// serveResource hands the buffer to http.ServeContent, which takes care of
// range requests, Content-Length, and If-None-Match against the ETag.
// Archives are immutable once stored, so no modtime is exposed.
func serveResource(w http.ResponseWriter, r *http.Request, contentType, etag string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("ETag", etag)
	http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(data))
}

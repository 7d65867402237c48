package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/addisnest/api/internal/application/media"
	"github.com/addisnest/api/internal/domain"
	"github.com/addisnest/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// multipartMemory is how much of a form is buffered in memory before parts
// spill to temporary files.
const multipartMemory = 8 << 20

// MediaHandler handles image uploads and serves stored uploads.
type MediaHandler struct {
	svc      media.Service
	maxBytes int64
}

func NewMediaHandler(svc media.Service, maxBytes int64) *MediaHandler {
	return &MediaHandler{svc: svc, maxBytes: maxBytes}
}

// Upload accepts files from any multipart field. Fields are taken in name
// order and files keep their order within a field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxBytes {
		writeServiceError(w, r, domain.ErrPayloadTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeServiceError(w, r, domain.ErrPayloadTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var uploaderID string
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		uploaderID = claims.UserID
	}

	fields := make([]string, 0, len(r.MultipartForm.File))
	for name := range r.MultipartForm.File {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var inputs []media.UploadInput
	for _, field := range fields {
		for _, fh := range r.MultipartForm.File[field] {
			f, err := fh.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable file part")
				return
			}
			defer f.Close()
			inputs = append(inputs, media.UploadInput{
				Reader:       f,
				OriginalName: fh.Filename,
				ContentType:  fh.Header.Get("Content-Type"),
				UploaderID:   uploaderID,
			})
		}
	}

	files, err := h.svc.Upload(r.Context(), inputs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, UploadEnvelope{Success: true, Count: len(files), Files: files})
}

// Serve streams a stored upload. Seekable backends get range support.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	rc, err := h.svc.Open(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, time.Time{}, rs)
		return
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

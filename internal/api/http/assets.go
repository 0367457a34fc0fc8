package http

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/pdf"
	"github.com/aitutor/tutor-api/internal/storage"
)

const maxUploadBytes = 32 << 20

var allowedUploads = []string{"application/pdf", "image/png", "image/jpeg", "image/webp", "video/mp4", "text/plain"}

type uploadResp struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	PDF         *pdf.Info `json:"pdf,omitempty"`
}

// POST /api/uploads with a multipart file= field. The stored URL can be
// used as a book's content_url or a video's video_url.
func UploadHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Blobs == nil {
			writeError(w, http.StatusServiceUnavailable, "uploads are disabled")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
		f, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read file")
			return
		}
		if len(data) == 0 {
			writeError(w, http.StatusBadRequest, "empty file")
			return
		}
		if len(data) > maxUploadBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}

		mt := mimetype.Detect(data)
		if !mimetype.EqualsAny(mt.String(), allowedUploads...) && !mt.Is("text/plain") {
			writeError(w, http.StatusBadRequest, "unsupported file type "+mt.String())
			return
		}

		resp := uploadResp{ContentType: mt.String(), Size: len(data)}
		if pdf.IsPDF(data) {
			info, err := pdf.Inspect(data)
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable PDF")
				return
			}
			resp.PDF = &info
		}

		owner := authmw.SubjectFromContext(r.Context())
		key, err := d.Blobs.Put("uploads/"+owner+"/"+uuid.NewString()+mt.Extension(), bytes.NewReader(data))
		if err != nil {
			internalError(w, r, d.Log, "store upload", err)
			return
		}
		resp.Key, resp.URL = key, d.Blobs.URL(key)
		d.Log.Info("file uploaded", "key", key, "content_type", resp.ContentType, "size", resp.Size, "user_id", owner)
		writeJSON(w, http.StatusCreated, resp)
	}
}

// GET /api/uploads/* streams a stored blob.
func ServeUploadHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Blobs == nil {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := d.Blobs.Get(key)
		if errors.Is(err, storage.ErrBadKey) || errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		if err != nil {
			internalError(w, r, d.Log, "read upload", err)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		_, _ = io.Copy(w, rc)
	}
}

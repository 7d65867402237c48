package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/addisnest/api/internal/application/media"
	"github.com/addisnest/api/internal/infrastructure/localfs"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	field, name, contentType string
	data                     []byte
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.name+`"`)
		h.Set("Content-Type", p.contentType)
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newMediaRouter(t *testing.T, maxBytes int64) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	h := NewMediaHandler(media.NewService(media.ServiceDeps{Storage: localfs.NewStore(dir)}), maxBytes)
	r := chi.NewRouter()
	r.Post("/media/upload", h.Upload)
	r.Get("/uploads/{filename}", h.Serve)
	return r, dir
}

func TestMediaUpload_ServesIdenticalBytes(t *testing.T) {
	router, _ := newMediaRouter(t, 1<<20)
	front := bytes.Repeat([]byte{0x89, 'P', 'N', 'G'}, 512)
	back := []byte("GIF89a tiny")
	body, ct := multipartBody(t,
		part{"images", "front.png", "image/png", front},
		part{"images", "back.gif", "image/gif", back},
	)

	req := httptest.NewRequest(http.MethodPost, "/media/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var env struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
		Files   []struct {
			Filename     string `json:"filename"`
			OriginalName string `json:"originalName"`
			MimeType     string `json:"mimetype"`
			Size         int64  `json:"size"`
			URL          string `json:"url"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.True(t, env.Success)
	require.Equal(t, 2, env.Count)
	require.Len(t, env.Files, 2)
	assert.Equal(t, "front.png", env.Files[0].OriginalName)
	assert.Equal(t, "image/gif", env.Files[1].MimeType)
	assert.Equal(t, int64(len(front)), env.Files[0].Size)

	for i, want := range [][]byte{front, back} {
		assert.Equal(t, "/uploads/"+env.Files[i].Filename, env.Files[i].URL)
		get := httptest.NewRecorder()
		router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, env.Files[i].URL, nil))
		require.Equal(t, http.StatusOK, get.Code)
		assert.Equal(t, want, get.Body.Bytes())
	}
}

func TestMediaUpload_InvalidTypePersistsNothing(t *testing.T) {
	router, dir := newMediaRouter(t, 1<<20)
	body, ct := multipartBody(t,
		part{"images", "ok.png", "image/png", []byte("png")},
		part{"images", "notes.txt", "text/plain", []byte("hello")},
	)
	req := httptest.NewRequest(http.MethodPost, "/media/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMediaUpload_NoFiles(t *testing.T) {
	router, _ := newMediaRouter(t, 1<<20)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "no files here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/media/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "no files provided")
}

func TestMediaUpload_TooLarge(t *testing.T) {
	router, dir := newMediaRouter(t, 1024)
	body, ct := multipartBody(t, part{"images", "big.jpg", "image/jpeg", bytes.Repeat([]byte{1}, 4096)})
	req := httptest.NewRequest(http.MethodPost, "/media/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMediaUpload_NotMultipart(t *testing.T) {
	router, _ := newMediaRouter(t, 1024)
	req := httptest.NewRequest(http.MethodPost, "/media/upload", bytes.NewBufferString(`{"file":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMediaServe_Missing(t *testing.T) {
	router, _ := newMediaRouter(t, 1024)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/nope.png", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

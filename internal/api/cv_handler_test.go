package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-parser/internal/pipeline"
	"cv-parser/internal/storage"
)

type fakeIngestor struct {
	docs    []pipeline.RawDocument
	results []pipeline.FileResult
	err     error
}

func (f *fakeIngestor) Ingest(_ context.Context, docs []pipeline.RawDocument) ([]pipeline.FileResult, error) {
	f.docs = docs
	return f.results, f.err
}

type fakeProfileStore struct {
	params storage.QueryParams
	items  []storage.CandidateProfile

	updateID      string
	updatePayload map[string]any
	updateErr     error

	deleteID string
	removed  bool
}

func (f *fakeProfileStore) QueryProfiles(_ context.Context, params storage.QueryParams) ([]storage.CandidateProfile, int, int, error) {
	f.params = params
	items := f.items
	if items == nil {
		items = []storage.CandidateProfile{}
	}
	return items, len(items) + 5, len(items), nil
}

func (f *fakeProfileStore) UpdateProfile(_ context.Context, id string, payload map[string]any) (*storage.CandidateProfile, error) {
	f.updateID = id
	f.updatePayload = payload
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &storage.CandidateProfile{ID: id, ProcessStatus: storage.StatusCompleted}, nil
}

func (f *fakeProfileStore) DeleteProfile(_ context.Context, id string) (bool, error) {
	f.deleteID = id
	return f.removed, nil
}

func newTestServer(ingestor Ingestor, store Store) http.Handler {
	return NewRouter(NewAPI(ingestor, store, nil))
}

func multipartBody(t *testing.T, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range filenames {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("contenuto di " + name))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestUploadHandler_MixedResults(t *testing.T) {
	ingestor := &fakeIngestor{results: []pipeline.FileResult{
		{Filename: "a.pdf", Status: pipeline.StatusSuccess, Message: "CV processed successfully", CVID: "id-1"},
		{Filename: "b.exe", Status: pipeline.StatusError, Message: "Invalid file type"},
	}}
	srv := newTestServer(ingestor, &fakeProfileStore{})

	body, contentType := multipartBody(t, "a.pdf", "b.exe")
	req := httptest.NewRequest(http.MethodPost, "/api/cv/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	// Per-file failures do not fail the request.
	assert.Equal(t, http.StatusOK, rec.Code)

	out := decodeBody(t, rec)
	assert.Equal(t, "Batch processing completed", out["message"])
	results := out["results"].([]any)
	require.Len(t, results, 2)

	first := results[0].(map[string]any)
	assert.Equal(t, "id-1", first["cv_id"])
	second := results[1].(map[string]any)
	assert.Equal(t, "error", second["status"])
	_, hasID := second["cv_id"]
	assert.False(t, hasID, "cv_id is omitted for failed files")

	require.Len(t, ingestor.docs, 2)
	assert.Equal(t, "a.pdf", ingestor.docs[0].Filename)
	assert.Equal(t, []byte("contenuto di a.pdf"), ingestor.docs[0].Content)
}

func TestUploadHandler_NoFiles(t *testing.T) {
	srv := newTestServer(&fakeIngestor{}, &fakeProfileStore{})

	body, contentType := multipartBody(t)
	req := httptest.NewRequest(http.MethodPost, "/api/cv/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["detail"], "no files")
}

func TestUploadHandler_BatchTooLarge(t *testing.T) {
	srv := newTestServer(&fakeIngestor{err: pipeline.ErrBatchTooLarge}, &fakeProfileStore{})

	names := make([]string, pipeline.MaxBatchSize+1)
	for i := range names {
		names[i] = fmt.Sprintf("cv-%d.pdf", i)
	}
	body, contentType := multipartBody(t, names...)
	req := httptest.NewRequest(http.MethodPost, "/api/cv/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["detail"], "10")
}

func TestListHandler_Defaults(t *testing.T) {
	store := &fakeProfileStore{}
	srv := newTestServer(&fakeIngestor{}, store)

	req := httptest.NewRequest(http.MethodGet, "/api/cv/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.params.Page)
	assert.Equal(t, 10, store.params.PageSize)

	out := decodeBody(t, rec)
	assert.Equal(t, float64(1), out["page"])
	assert.Equal(t, float64(0), out["total"], "total reflects the filtered count")
	items, ok := out["items"].([]any)
	require.True(t, ok, "items is a list even when empty")
	assert.Empty(t, items)
}

func TestListHandler_ParsesFilters(t *testing.T) {
	store := &fakeProfileStore{}
	srv := newTestServer(&fakeIngestor{}, store)

	url := "/api/cv/?search=java&nome=mar&citta=Milano" +
		"&anni_esperienza_min=3&anni_esperienza_max=8" +
		"&tools=JIRA&tools=GIT&linguaggi=PYTHON" +
		"&data_dal=2025-01-01" +
		"&sort_by=cognome&sort_desc=true&page=2&page_size=25"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	p := store.params
	assert.Equal(t, "java", p.Search)
	assert.Equal(t, "mar", p.Nome)
	assert.Equal(t, "Milano", p.Citta)
	require.NotNil(t, p.AnniEsperienzaMin)
	assert.Equal(t, 3, *p.AnniEsperienzaMin)
	require.NotNil(t, p.AnniEsperienzaMax)
	assert.Equal(t, 8, *p.AnniEsperienzaMax)
	assert.Equal(t, []string{"JIRA", "GIT"}, p.Tools)
	assert.Equal(t, []string{"PYTHON"}, p.Linguaggi)
	require.NotNil(t, p.DataDal)
	assert.Equal(t, "2025-01-01", p.DataDal.Format("2006-01-02"))
	assert.Equal(t, "cognome", p.SortBy)
	assert.True(t, p.SortDesc)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 25, p.PageSize)
}

func TestListHandler_ClampsBadPaging(t *testing.T) {
	store := &fakeProfileStore{}
	srv := newTestServer(&fakeIngestor{}, store)

	req := httptest.NewRequest(http.MethodGet, "/api/cv/?page=0&page_size=5000", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, 1, store.params.Page)
	assert.Equal(t, 10, store.params.PageSize)
}

func TestUpdateHandler_CoercesPayload(t *testing.T) {
	store := &fakeProfileStore{}
	srv := newTestServer(&fakeIngestor{}, store)

	body := `{
		"nome": "Maria",
		"anni_esperienza": 6,
		"data_nascita": "15/05/1990",
		"tools": ["JIRA"],
		"note": null,
		"id": "ignored",
		"unknown_field": "ignored"
	}`
	req := httptest.NewRequest(http.MethodPut, "/api/cv/abc-123", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", store.updateID)

	p := store.updatePayload
	assert.Equal(t, "Maria", p["nome"])
	assert.Equal(t, 6, p["anni_esperienza"])
	assert.Equal(t, []string{"JIRA"}, p["tools"])

	date, ok := p["data_nascita"].(storage.Date)
	require.True(t, ok)
	assert.Equal(t, "1990-05-15", date.String())

	val, present := p["note"]
	assert.True(t, present, "explicit null clears the column")
	assert.Nil(t, val)

	_, present = p["unknown_field"]
	assert.False(t, present)
	_, present = p["id"]
	assert.False(t, present, "id is not updatable")
}

func TestUpdateHandler_NotFound(t *testing.T) {
	store := &fakeProfileStore{updateErr: storage.ErrNotFound}
	srv := newTestServer(&fakeIngestor{}, store)

	req := httptest.NewRequest(http.MethodPut, "/api/cv/missing", strings.NewReader(`{"nome":"x"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "CV not found", decodeBody(t, rec)["detail"])
}

func TestUpdateHandler_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"non-integer experience", `{"anni_esperienza": 5.5}`},
		{"string where int expected", `{"stipendio_attuale": "molto"}`},
		{"malformed date", `{"data_nascita": "1990/05/15"}`},
		{"non-string list item", `{"tools": ["JIRA", 42]}`},
		{"invalid json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeProfileStore{}
			srv := newTestServer(&fakeIngestor{}, store)

			req := httptest.NewRequest(http.MethodPut, "/api/cv/abc", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, store.updateID, "store is never reached on bad input")
		})
	}
}

func TestDeleteHandler(t *testing.T) {
	t.Run("removed", func(t *testing.T) {
		store := &fakeProfileStore{removed: true}
		srv := newTestServer(&fakeIngestor{}, store)

		req := httptest.NewRequest(http.MethodDelete, "/api/cv/abc-123", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "abc-123", store.deleteID)
		assert.Equal(t, "CV deleted successfully", decodeBody(t, rec)["message"])
	})

	t.Run("missing", func(t *testing.T) {
		store := &fakeProfileStore{removed: false}
		srv := newTestServer(&fakeIngestor{}, store)

		req := httptest.NewRequest(http.MethodDelete, "/api/cv/missing", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "CV not found", decodeBody(t, rec)["detail"])
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&fakeIngestor{}, &fakeProfileStore{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"fjacquet/techpack-csv/internal/articletype"
	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/parsererror"
	"fjacquet/techpack-csv/internal/pdfparser"
	"fjacquet/techpack-csv/internal/repository"
	"fjacquet/techpack-csv/internal/techpack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pdfBytes = "%PDF-1.4\nplaceholder body\n%%EOF\n"

type fakeProcessor struct {
	result   techpack.Result
	err      error
	gotName  string
	gotMD    models.Metadata
	gotBytes string
}

func (f *fakeProcessor) ProcessFile(_ context.Context, path, filename string, md models.Metadata) (techpack.Result, error) {
	data, _ := os.ReadFile(path)
	f.gotBytes = string(data)
	f.gotName = filename
	f.gotMD = md
	return f.result, f.err
}

type failingRepo struct {
	repository.Repository
}

func (failingRepo) Save(context.Context, models.TechPack) (models.TechPack, error) {
	return models.TechPack{}, errors.New("disk full")
}

func (failingRepo) List(context.Context, int, int) ([]models.TechPack, error) {
	return nil, errors.New("disk full")
}

func openRepo(t *testing.T) *repository.SQLiteRepository {
	t.Helper()
	repo, err := repository.Open(":memory:", logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func uploadRequest(t *testing.T, filename, content, metadata string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if metadata != "" {
		require.NoError(t, mw.WriteField("metadata", metadata))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("pdf", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tech-packs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := New(&fakeProcessor{}, openRepo(t), Options{}, logging.NewMockLogger())
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreate_Success(t *testing.T) {
	proc := &fakeProcessor{result: techpack.Result{Record: models.TechPack{
		StyleID:       "NK-SS25-001",
		Name:          "Boxy Hoodie",
		Status:        models.StatusDraft,
		TotalPages:    1,
		ExtractedText: "Style Id: NK-SS25-001",
	}}}
	repo := openRepo(t)
	s := New(proc, repo, Options{}, logging.NewMockLogger())

	rec := serve(s, uploadRequest(t, "hoodie.pdf", pdfBytes, `{"name":"Boxy Hoodie","totalPages":1}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp CreateResponse
	decode(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "NK-SS25-001", resp.StyleID)
	assert.Equal(t, "Style Id: NK-SS25-001", resp.ExtractedText)
	assert.Equal(t, "Tech pack created successfully", resp.Message)

	assert.Equal(t, "hoodie.pdf", proc.gotName)
	assert.Equal(t, pdfBytes, proc.gotBytes)
	assert.Equal(t, models.Metadata{"name": "Boxy Hoodie", "totalPages": "1"}, proc.gotMD)

	stored, err := repo.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Boxy Hoodie", stored.Name)
}

func TestCreate_WithProcessor(t *testing.T) {
	logger := logging.NewMockLogger()
	text := "Boxy Hoodie\nStyle No: NK-SS25-001\nColour: Navy\n"
	proc := techpack.NewProcessor(
		pdfparser.NewMockPDFExtractor(text, nil),
		articletype.NewDefaultClassifier(articletype.Options{}, logger),
		nil,
		techpack.Options{Clock: func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }},
		logger,
	)
	repo := openRepo(t)
	s := New(proc, repo, Options{}, logger)

	rec := serve(s, uploadRequest(t, "hoodie.pdf", pdfBytes, `{"colour":"Black"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp CreateResponse
	decode(t, rec, &resp)
	stored, err := repo.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "NK-SS25-001", stored.StyleID)
	assert.Equal(t, "Black", stored.Colour, "caller metadata wins")
	assert.Equal(t, "Hoodie", stored.ArticleType)
	assert.Equal(t, "hoodie.pdf", stored.FileName)

	rec = serve(s, uploadRequest(t, "notes.pdf", "plain text", `{}`))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestCreate_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		req      func(t *testing.T) *http.Request
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing file",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "", "", `{"name":"x"}`) },
			wantCode: http.StatusBadRequest,
			wantErr:  "Missing metadata or PDF file",
		},
		{
			name:     "missing metadata",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "a.pdf", pdfBytes, "") },
			wantCode: http.StatusBadRequest,
			wantErr:  "Missing metadata or PDF file",
		},
		{
			name:     "metadata not JSON",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "a.pdf", pdfBytes, "{broken") },
			wantCode: http.StatusBadRequest,
			wantErr:  "Invalid metadata",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/tech-packs", strings.NewReader("{}"))
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "Missing metadata or PDF file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeProcessor{}, openRepo(t), Options{}, logging.NewMockLogger())
			rec := serve(s, tt.req(t))

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp errorResponse
			decode(t, rec, &resp)
			assert.Equal(t, tt.wantErr, resp.Error)
		})
	}
}

func TestCreate_ProcessorErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not a PDF", &parsererror.InvalidFormatError{ExpectedFormat: "PDF", Msg: "missing %PDF header"}, http.StatusUnsupportedMediaType},
		{"bad metadata", &parsererror.ValidationError{Subject: "metadata", Reason: "totalPages"}, http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeProcessor{err: tt.err}, openRepo(t), Options{}, logging.NewMockLogger())
			rec := serve(s, uploadRequest(t, "a.pdf", pdfBytes, `{}`))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCreate_StoreFailure(t *testing.T) {
	proc := &fakeProcessor{result: techpack.Result{Record: models.TechPack{StyleID: "S", Name: "N"}}}
	logger := logging.NewMockLogger()
	s := New(proc, failingRepo{}, Options{}, logger)

	rec := serve(s, uploadRequest(t, "a.pdf", pdfBytes, `{}`))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, logger.HasEntry("ERROR", "Failed to save tech pack"))
}

func TestCreate_TooLarge(t *testing.T) {
	s := New(&fakeProcessor{}, openRepo(t), Options{MaxUploadMB: 1}, logging.NewMockLogger())
	big := pdfBytes + strings.Repeat("x", 2<<20)

	rec := serve(s, uploadRequest(t, "big.pdf", big, `{}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestListAndGet(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i, style := range []string{"A-1", "B-2", "C-3"} {
		tp, err := repo.Save(ctx, models.TechPack{StyleID: style, Name: style, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
		ids = append(ids, tp.ID)
	}
	s := New(&fakeProcessor{}, repo, Options{}, logging.NewMockLogger())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/tech-packs?limit=2&offset=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.TechPack
	decode(t, rec, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "C-3", list[0].StyleID)
	assert.Equal(t, "B-2", list[1].StyleID)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/tech-packs/"+ids[0], nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.TechPack
	decode(t, rec, &got)
	assert.Equal(t, "A-1", got.StyleID)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/tech-packs/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/tech-packs?limit=ten", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_EmptyIsArray(t *testing.T) {
	s := New(&fakeProcessor{}, openRepo(t), Options{}, logging.NewMockLogger())
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/tech-packs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestList_StoreFailure(t *testing.T) {
	s := New(&fakeProcessor{}, failingRepo{}, Options{}, logging.NewMockLogger())
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/tech-packs", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	repo := openRepo(t)
	tp, err := repo.Save(context.Background(), models.TechPack{StyleID: "A-1", Name: "Tee", Status: models.StatusDraft})
	require.NoError(t, err)
	s := New(&fakeProcessor{}, repo, Options{}, logging.NewMockLogger())

	patch := func(id, body string) *httptest.ResponseRecorder {
		return serve(s, httptest.NewRequest(http.MethodPatch, "/api/tech-packs/"+id+"/status", strings.NewReader(body)))
	}

	rec := patch(tp.ID, `{"status":"Approved"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.TechPack
	decode(t, rec, &updated)
	assert.Equal(t, models.StatusApproved, updated.Status)

	stored, err := repo.Get(context.Background(), tp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)

	assert.Equal(t, http.StatusBadRequest, patch(tp.ID, `{"status":"archived"}`).Code)
	assert.Equal(t, http.StatusBadRequest, patch(tp.ID, `not json`).Code)
	assert.Equal(t, http.StatusNotFound, patch("missing", `{"status":"approved"}`).Code)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := New(&fakeProcessor{}, openRepo(t), Options{}, logging.NewMockLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"collabhub/database/docstore"
	"collabhub/middleware"
	"collabhub/models"
	"collabhub/services/project"
	"collabhub/services/registration"
	"collabhub/services/search"
	"collabhub/services/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type fakeRegistration struct {
	view *registration.View
	err  error
}

func (f *fakeRegistration) Start(context.Context) (*registration.View, error) { return f.view, f.err }
func (f *fakeRegistration) Get(context.Context, string) (*registration.View, error) {
	return f.view, f.err
}
func (f *fakeRegistration) Update(context.Context, string, models.RegistrationPatch) (*registration.View, error) {
	return f.view, f.err
}
func (f *fakeRegistration) Next(context.Context, string) (*registration.View, error) {
	return f.view, f.err
}
func (f *fakeRegistration) Back(context.Context, string) (*registration.View, error) {
	return f.view, f.err
}

func TestRegistrationHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		fake   *fakeRegistration
		status int
	}{
		{"advanced", &fakeRegistration{view: &registration.View{State: registration.StateActive, Errors: registration.StepErrors{}}}, http.StatusOK},
		{"invalid step", &fakeRegistration{view: &registration.View{Errors: registration.StepErrors{"email": "Email is required"}}}, http.StatusUnprocessableEntity},
		{"submitted", &fakeRegistration{view: &registration.View{State: registration.StateSubmitted, Errors: registration.StepErrors{}}}, http.StatusCreated},
		{"unknown session", &fakeRegistration{err: registration.ErrSessionNotFound}, http.StatusNotFound},
		{"in flight", &fakeRegistration{err: registration.ErrSubmissionInFlight}, http.StatusConflict},
		{"busy", &fakeRegistration{err: registration.ErrSessionBusy}, http.StatusConflict},
		{"store down", &fakeRegistration{err: errors.New("redis: connection refused")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRegistrationHandler(tt.fake, zap.NewNop())
			r := gin.New()
			r.POST("/register/:sessionID/next", h.NextHandler)
			w := serve(r, http.MethodPost, "/register/s1/next", nil, "")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRegistrationHandler_UpdateRejectsBadJSON(t *testing.T) {
	h := NewRegistrationHandler(&fakeRegistration{}, zap.NewNop())
	r := gin.New()
	r.PATCH("/register/:sessionID", h.UpdateHandler)

	w := serve(r, http.MethodPatch, "/register/s1", bytes.NewBufferString(`{"skills": "not-a-list"`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeSearcher struct {
	got search.Filters
	err error
}

func (f *fakeSearcher) Search(_ context.Context, filters search.Filters) ([]search.Result, error) {
	f.got = filters
	return []search.Result{}, f.err
}

func TestSearchHandler(t *testing.T) {
	t.Run("parses facets", func(t *testing.T) {
		fake := &fakeSearcher{}
		r := gin.New()
		r.GET("/search", NewSearchHandler(fake, zap.NewNop()).SearchHandler)

		w := serve(r, http.MethodGet, "/search?q=login&kind=users&skills=Go,%20React&skills=Vue&languages=English&limit=5", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, search.Filters{
			Kind:         search.KindUser,
			Query:        "login",
			Skills:       []string{"Go", "React", "Vue"},
			Languages:    []string{"English"},
			Availability: search.AvailabilityAny,
			Limit:        5,
		}, fake.got)
	})

	t.Run("bad kind", func(t *testing.T) {
		r := gin.New()
		r.GET("/search", NewSearchHandler(&fakeSearcher{}, zap.NewNop()).SearchHandler)
		assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/search?kind=teams", nil, "").Code)
		assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/search?limit=many", nil, "").Code)
	})

	t.Run("store failure", func(t *testing.T) {
		r := gin.New()
		r.GET("/search", NewSearchHandler(&fakeSearcher{err: errors.New("deadline exceeded")}, zap.NewNop()).SearchHandler)
		w := serve(r, http.MethodGet, "/search", nil, "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t, `{"error":"search failed"}`, w.Body.String())
	})

	t.Run("malformed stats still encode", func(t *testing.T) {
		ctx := context.Background()
		store := docstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, docstore.UsersCollection, "u1", docstore.Record{"fullName": "Ana", "stats": map[string]any{"rating": 4.5}}))
		require.NoError(t, store.Set(ctx, docstore.UsersCollection, "u2", docstore.Record{"fullName": "Bo", "stats": map[string]any{"rating": "NaN"}}))

		r := gin.New()
		r.GET("/search", NewSearchHandler(search.NewComposer(store, zap.NewNop(), 20, 100), zap.NewNop()).SearchHandler)
		w := serve(r, http.MethodGet, "/search?kind=user", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Results []search.Result `json:"results"`
			Count   int             `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Count)
		require.Len(t, body.Results, 2)
		for _, res := range body.Results {
			require.NotNil(t, res.User)
			if res.User.ID == "u2" {
				assert.Zero(t, res.User.Stats.Rating)
			}
		}
	})
}

type fakeProjects struct {
	err error
}

func (f fakeProjects) Create(_ context.Context, ownerID string, in project.Input) (*models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Project{ID: "p1", Title: in.Title, OwnerID: ownerID}, nil
}
func (f fakeProjects) Get(context.Context, string) (*models.Project, error) { return nil, f.err }
func (f fakeProjects) ListByOwner(context.Context, string, int) ([]*models.Project, error) {
	return nil, f.err
}
func (f fakeProjects) Delete(context.Context, string, string) error { return f.err }

func TestProjectHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusNoContent},
		{project.ErrForbidden, http.StatusForbidden},
		{project.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		h := NewProjectHandler(fakeProjects{err: tt.err}, zap.NewNop())
		r := gin.New()
		r.DELETE("/projects/:id", func(c *gin.Context) { c.Set(middleware.UserIDKey, "u1") }, h.DeleteProjectHandler)
		assert.Equal(t, tt.status, serve(r, http.MethodDelete, "/projects/p1", nil, "").Code, "err=%v", tt.err)
	}

	h := NewProjectHandler(fakeProjects{err: project.ErrInvalidInput}, zap.NewNop())
	r := gin.New()
	r.POST("/projects", h.CreateProjectHandler)
	w := serve(r, http.MethodPost, "/projects", bytes.NewBufferString(`{"title":""}`), "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

type fakeUploader struct {
	bucket  storage.Bucket
	name    string
	body    string
	deleted string
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, bucket storage.Bucket, name string) (*storage.Object, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(r)
	f.bucket, f.name, f.body = bucket, name, string(b)
	return &storage.Object{PublicID: string(bucket) + "/" + name, URL: "https://cdn/x"}, nil
}

func (f *fakeUploader) Delete(_ context.Context, publicID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = publicID
	return nil
}

func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) { c.Set(middleware.UserIDKey, id) }
}

func multipartBody(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestStorageHandler_Upload(t *testing.T) {
	fake := &fakeUploader{}
	r := gin.New()
	r.POST("/uploads/:bucket", asUser("u1"), NewStorageHandler(fake, zap.NewNop()).UploadFileHandler)

	body, ct := multipartBody(t, "png-bytes")
	w := serve(r, http.MethodPost, "/uploads/avatars", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, storage.BucketAvatars, fake.bucket)
	assert.Equal(t, "png-bytes", fake.body)
	assert.True(t, strings.HasPrefix(fake.name, "u1_"), fake.name)

	body, ct = multipartBody(t, "x")
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/uploads/secrets", body, ct).Code)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/uploads/covers", nil, "").Code)

	anonymous := gin.New()
	anonymous.POST("/uploads/:bucket", NewStorageHandler(&fakeUploader{}, zap.NewNop()).UploadFileHandler)
	body, ct = multipartBody(t, "x")
	assert.Equal(t, http.StatusUnauthorized, serve(anonymous, http.MethodPost, "/uploads/covers", body, ct).Code)

	unconfigured := gin.New()
	unconfigured.POST("/uploads/:bucket", asUser("u1"), NewStorageHandler(&fakeUploader{err: storage.ErrNotConfigured}, zap.NewNop()).UploadFileHandler)
	body, ct = multipartBody(t, "x")
	assert.Equal(t, http.StatusServiceUnavailable, serve(unconfigured, http.MethodPost, "/uploads/covers", body, ct).Code)
}

func TestStorageHandler_Delete(t *testing.T) {
	fake := &fakeUploader{}
	r := gin.New()
	r.DELETE("/uploads/:bucket/:name", asUser("u1"), NewStorageHandler(fake, zap.NewNop()).DeleteFileHandler)

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/uploads/covers/u1_abc", nil, "").Code)
	assert.Equal(t, "covers/u1_abc", fake.deleted)

	fake.deleted = ""
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodDelete, "/uploads/covers/u2_abc", nil, "").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodDelete, "/uploads/covers/u1abc", nil, "").Code)
	assert.Empty(t, fake.deleted)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodDelete, "/uploads/secrets/u1_abc", nil, "").Code)

	tests := []struct {
		err    error
		status int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrNotConfigured, http.StatusServiceUnavailable},
		{errors.New("timeout"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		r := gin.New()
		r.DELETE("/uploads/:bucket/:name", asUser("u1"), NewStorageHandler(&fakeUploader{err: tt.err}, zap.NewNop()).DeleteFileHandler)
		assert.Equal(t, tt.status, serve(r, http.MethodDelete, "/uploads/avatars/u1_abc", nil, "").Code, "err=%v", tt.err)
	}
}

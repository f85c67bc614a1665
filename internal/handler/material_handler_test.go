package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/internal/service"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type materialServiceMock struct {
	createReq  service.CreateMaterialRequest
	createFile []byte
	fileName   string
	hadFile    bool
	createErr  error
	listFilter models.MaterialFilter
	listCalled bool
}

func (m *materialServiceMock) List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, *models.Pagination, error) {
	m.listCalled = true
	m.listFilter = filter
	return []models.Material{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (m *materialServiceMock) Get(ctx context.Context, id int64) (*models.Material, error) {
	return nil, appErrors.ErrNotFound
}

func (m *materialServiceMock) Create(ctx context.Context, req service.CreateMaterialRequest, file *service.UploadFile) (*models.Material, error) {
	m.createReq = req
	if file != nil {
		m.hadFile = true
		m.fileName = file.Name
		body, err := io.ReadAll(file.Content)
		if err != nil {
			return nil, err
		}
		m.createFile = body
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Material{ID: 5, Title: req.Title, SubjectID: req.SubjectID}, nil
}

func (m *materialServiceMock) Update(ctx context.Context, id int64, req service.UpdateMaterialRequest) (*models.Material, error) {
	return &models.Material{ID: id, Title: req.Title}, nil
}

func (m *materialServiceMock) Delete(ctx context.Context, id int64) error {
	return nil
}

func multipartMaterial(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/materials", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestMaterialHandlerCreateWithFile(t *testing.T) {
	svc := &materialServiceMock{}
	h := NewMaterialHandler(svc)
	pdf := []byte("%PDF-1.4\n%test\n")

	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Request = multipartMaterial(t, map[string]string{
		"title":       "Unit 1 Notes",
		"type":        "notes",
		"subject_id":  "11",
		"semester_id": "4",
	}, "unit1.pdf", pdf)
	withAdmin(c)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, svc.hadFile)
	assert.Equal(t, "unit1.pdf", svc.fileName)
	assert.Equal(t, pdf, svc.createFile)
	assert.Equal(t, "Unit 1 Notes", svc.createReq.Title)
	assert.Equal(t, int64(11), svc.createReq.SubjectID)
	require.NotNil(t, svc.createReq.SemesterID)
	assert.Equal(t, int64(4), *svc.createReq.SemesterID)
	assert.Nil(t, svc.createReq.CategoryID)
}

func TestMaterialHandlerCreateWithoutFile(t *testing.T) {
	svc := &materialServiceMock{}
	h := NewMaterialHandler(svc)

	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Request = multipartMaterial(t, map[string]string{"title": "Syllabus", "type": "syllabus", "subject_id": "11"}, "", nil)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.False(t, svc.hadFile)
}

func TestMaterialHandlerCreatePropagatesUploadError(t *testing.T) {
	svc := &materialServiceMock{createErr: appErrors.Clone(appErrors.ErrUnsupportedMedia, "only PDF files are accepted")}
	h := NewMaterialHandler(svc)

	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Request = multipartMaterial(t, map[string]string{"title": "Notes", "type": "notes", "subject_id": "11"}, "notes.txt", []byte("plain text"))

	h.Create(c)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestMaterialHandlerListRejectsUnknownType(t *testing.T) {
	svc := &materialServiceMock{}
	h := NewMaterialHandler(svc)

	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/materials?type=slides", nil)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.listCalled)
}

func TestMaterialHandlerListFilters(t *testing.T) {
	svc := &materialServiceMock{}
	h := NewMaterialHandler(svc)

	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/materials?subject_id=11&type=pyq&search=%20exam%20&page=2&limit=5", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.listFilter.SubjectID)
	assert.Equal(t, int64(11), *svc.listFilter.SubjectID)
	assert.Equal(t, models.MaterialPYQ, svc.listFilter.Type)
	assert.Equal(t, "exam", svc.listFilter.Search)
	assert.Equal(t, 2, svc.listFilter.Paging.Page)
	assert.Equal(t, 5, svc.listFilter.Paging.PageSize)
}

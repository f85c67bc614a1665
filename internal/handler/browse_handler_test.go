package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyhub-api/internal/middleware"
	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/internal/service"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type browseServiceMock struct {
	subjectPage *models.SubjectPage
	subjectHit  bool
	subjectErr  error
	lastRawID   string
	lineage     *models.SubjectLineage
	lineageErr  error
	byName      bool
}

func (m *browseServiceMock) Categories(ctx context.Context, byName bool) ([]models.Category, bool, error) {
	m.byName = byName
	return []models.Category{{ID: 1, Name: "Engineering"}}, false, nil
}

func (m *browseServiceMock) Category(ctx context.Context, id int64) (*models.CategoryPage, bool, error) {
	return nil, false, appErrors.ErrNotFound
}

func (m *browseServiceMock) Department(ctx context.Context, id int64) (*models.DepartmentPage, bool, error) {
	return nil, false, appErrors.ErrNotFound
}

func (m *browseServiceMock) Year(ctx context.Context, rawID string) (*models.YearPage, bool, error) {
	return nil, false, appErrors.ErrNotFound
}

func (m *browseServiceMock) Semester(ctx context.Context, rawID string) (*models.SemesterPage, bool, error) {
	return nil, false, appErrors.ErrNotFound
}

func (m *browseServiceMock) Subject(ctx context.Context, rawID string) (*models.SubjectPage, bool, error) {
	m.lastRawID = rawID
	return m.subjectPage, m.subjectHit, m.subjectErr
}

func (m *browseServiceMock) SubjectLineage(ctx context.Context, rawID string) (*models.SubjectLineage, error) {
	m.lastRawID = rawID
	return m.lineage, m.lineageErr
}

type opinionSubmitterMock struct {
	subjectID int64
	req       service.SubmitOpinionRequest
	called    bool
	err       error
}

func (m *opinionSubmitterMock) Submit(ctx context.Context, subjectID int64, req service.SubmitOpinionRequest) (*models.SubjectOpinions, error) {
	m.called = true
	m.subjectID = subjectID
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.SubjectOpinions{
		Opinions: []models.Opinion{{ID: 1, SubjectID: subjectID, Rating: req.Rating, Comment: req.Comment}},
		Summary:  models.RatingSummary{Count: 1, Average: float64(req.Rating)},
	}, nil
}

func TestBrowseHandlerSubjectCacheHit(t *testing.T) {
	svc := &browseServiceMock{
		subjectPage: &models.SubjectPage{Subject: models.Subject{ID: 11, Code: "CS201", Name: "Data Structures"}},
		subjectHit:  true,
	}
	h := NewBrowseHandler(svc, &opinionSubmitterMock{})

	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/browse/subjects/2-3-4-11", nil)
	c.Params = gin.Params{{Key: "id", Value: "2-3-4-11"}}

	h.Subject(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2-3-4-11", svc.lastRawID)
	assert.Equal(t, "HIT", w.Header().Get(middleware.CacheStatusHeader))
	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env.Meta["cache_hit"])

	var page models.SubjectPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, "CS201", page.Subject.Code)
}

func TestBrowseHandlerSubjectNotFound(t *testing.T) {
	svc := &browseServiceMock{subjectErr: appErrors.Clone(appErrors.ErrNotFound, "page not found")}
	h := NewBrowseHandler(svc, &opinionSubmitterMock{})

	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/browse/subjects/9-11", nil)
	c.Params = gin.Params{{Key: "id", Value: "9-11"}}

	h.Subject(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestBrowseHandlerCategoryInvalidID(t *testing.T) {
	h := NewBrowseHandler(&browseServiceMock{}, &opinionSubmitterMock{})

	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/browse/categories/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Category(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBrowseHandlerCategoriesSortByName(t *testing.T) {
	svc := &browseServiceMock{}
	h := NewBrowseHandler(svc, &opinionSubmitterMock{})

	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/categories?sort=name", nil)

	h.Categories(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.byName)
	assert.Equal(t, "MISS", w.Header().Get(middleware.CacheStatusHeader))
}

func TestBrowseHandlerSubmitOpinion(t *testing.T) {
	lineage := &models.SubjectLineage{SubjectID: 11, SubjectCode: "CS201"}
	svc := &browseServiceMock{lineage: lineage}
	opinions := &opinionSubmitterMock{}
	h := NewBrowseHandler(svc, opinions)

	w := httptest.NewRecorder()
	c := newTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/browse/subjects/4-11/opinions", bytes.NewBufferString(`{"rating":5,"comment":"great course"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "4-11"}}

	h.SubmitOpinion(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(11), opinions.subjectID)
	assert.Equal(t, 5, opinions.req.Rating)
	assert.Equal(t, "great course", opinions.req.Comment)
}

func TestBrowseHandlerSubmitOpinionUnknownSubject(t *testing.T) {
	svc := &browseServiceMock{lineageErr: appErrors.ErrNotFound}
	opinions := &opinionSubmitterMock{}
	h := NewBrowseHandler(svc, opinions)

	w := httptest.NewRecorder()
	c := newTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/browse/subjects/99/opinions", bytes.NewBufferString(`{"rating":5,"comment":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	h.SubmitOpinion(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, opinions.called)
}

func TestBrowseHandlerSubmitOpinionMalformedBody(t *testing.T) {
	svc := &browseServiceMock{lineage: &models.SubjectLineage{SubjectID: 11}}
	opinions := &opinionSubmitterMock{}
	h := NewBrowseHandler(svc, opinions)

	w := httptest.NewRecorder()
	c := newTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/browse/subjects/11/opinions", bytes.NewBufferString(`{"rating":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "11"}}

	h.SubmitOpinion(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, opinions.called)
}

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyhub-api/internal/middleware"
	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/internal/service"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
	"github.com/noah-isme/studyhub-api/pkg/response"
)

type browseService interface {
	Categories(ctx context.Context, byName bool) ([]models.Category, bool, error)
	Category(ctx context.Context, id int64) (*models.CategoryPage, bool, error)
	Department(ctx context.Context, id int64) (*models.DepartmentPage, bool, error)
	Year(ctx context.Context, rawID string) (*models.YearPage, bool, error)
	Semester(ctx context.Context, rawID string) (*models.SemesterPage, bool, error)
	Subject(ctx context.Context, rawID string) (*models.SubjectPage, bool, error)
	SubjectLineage(ctx context.Context, rawID string) (*models.SubjectLineage, error)
}

type opinionSubmitter interface {
	Submit(ctx context.Context, subjectID int64, req service.SubmitOpinionRequest) (*models.SubjectOpinions, error)
}

// BrowseHandler serves the public hierarchy pages.
type BrowseHandler struct {
	browse   browseService
	opinions opinionSubmitter
}

// NewBrowseHandler constructs a browse handler.
func NewBrowseHandler(browse browseService, opinions opinionSubmitter) *BrowseHandler {
	return &BrowseHandler{browse: browse, opinions: opinions}
}

// Categories godoc
// @Summary List categories
// @Tags Browse
// @Produce json
// @Param sort query string false "name for alphabetical, newest first otherwise"
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *BrowseHandler) Categories(c *gin.Context) {
	categories, hit, err := h.browse.Categories(c.Request.Context(), c.Query("sort") == "name")
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, categories, nil, middleware.ExtractMeta(c))
}

// Category godoc
// @Summary Category page
// @Tags Browse
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /browse/categories/{id} [get]
func (h *BrowseHandler) Category(c *gin.Context) {
	id, err := browseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, hit, err := h.browse.Category(c.Request.Context(), id)
	h.respond(c, page, hit, err)
}

// Department godoc
// @Summary Department page
// @Tags Browse
// @Produce json
// @Param id path int true "Department ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /browse/departments/{id} [get]
func (h *BrowseHandler) Department(c *gin.Context) {
	id, err := browseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, hit, err := h.browse.Department(c.Request.Context(), id)
	h.respond(c, page, hit, err)
}

// Year godoc
// @Summary Year page
// @Tags Browse
// @Produce json
// @Param id path string true "departmentId-yearId"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /browse/years/{id} [get]
func (h *BrowseHandler) Year(c *gin.Context) {
	page, hit, err := h.browse.Year(c.Request.Context(), c.Param("id"))
	h.respond(c, page, hit, err)
}

// Semester godoc
// @Summary Semester page
// @Tags Browse
// @Produce json
// @Param id path string true "departmentId-yearId-semesterId"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /browse/semesters/{id} [get]
func (h *BrowseHandler) Semester(c *gin.Context) {
	page, hit, err := h.browse.Semester(c.Request.Context(), c.Param("id"))
	h.respond(c, page, hit, err)
}

// Subject godoc
// @Summary Subject page
// @Description The subject id is the last dash separated segment. Leading segments must match its ancestors.
// @Tags Browse
// @Produce json
// @Param id path string true "...-semesterId-subjectId"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /browse/subjects/{id} [get]
func (h *BrowseHandler) Subject(c *gin.Context) {
	page, hit, err := h.browse.Subject(c.Request.Context(), c.Param("id"))
	h.respond(c, page, hit, err)
}

// SubmitOpinion godoc
// @Summary Rate a subject
// @Description Stores an anonymous opinion and returns every opinion of the subject with the new summary.
// @Tags Browse
// @Accept json
// @Produce json
// @Param id path string true "...-semesterId-subjectId"
// @Param payload body service.SubmitOpinionRequest true "Opinion payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /browse/subjects/{id}/opinions [post]
func (h *BrowseHandler) SubmitOpinion(c *gin.Context) {
	lineage, err := h.browse.SubjectLineage(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.SubmitOpinionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.opinions.Submit(c.Request.Context(), lineage.SubjectID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func (h *BrowseHandler) respond(c *gin.Context, page interface{}, hit bool, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, page, nil, middleware.ExtractMeta(c))
}

func browseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "page not found")
	}
	return id, nil
}

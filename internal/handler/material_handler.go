package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/internal/service"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
	"github.com/noah-isme/studyhub-api/pkg/response"
)

type materialService interface {
	List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Material, error)
	Create(ctx context.Context, req service.CreateMaterialRequest, file *service.UploadFile) (*models.Material, error)
	Update(ctx context.Context, id int64, req service.UpdateMaterialRequest) (*models.Material, error)
	Delete(ctx context.Context, id int64) error
}

// MaterialHandler handles study material uploads.
type MaterialHandler struct {
	service materialService
}

// NewMaterialHandler constructs a material handler.
func NewMaterialHandler(svc materialService) *MaterialHandler {
	return &MaterialHandler{service: svc}
}

// List godoc
// @Summary List materials
// @Tags Admin Materials
// @Produce json
// @Security BearerAuth
// @Param subject_id query int false "Filter by subject"
// @Param semester_id query int false "Filter by semester"
// @Param type query string false "notes, pyq, syllabus or model_paper"
// @Param search query string false "Search title"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	var filter models.MaterialFilter
	var err error
	if filter.SubjectID, err = queryInt64(c, "subject_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.SemesterID, err = queryInt64(c, "semester_id"); err != nil {
		response.Error(c, err)
		return
	}
	if raw := c.Query("type"); raw != "" {
		materialType, ok := models.ParseMaterialType(raw)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid material type"))
			return
		}
		filter.Type = materialType
	}
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Paging = pagingFromQuery(c)

	materials, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materials, pagination)
}

// Get godoc
// @Summary Get material by id
// @Tags Admin Materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 200 {object} response.Envelope
// @Router /admin/materials/{id} [get]
func (h *MaterialHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	material, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, material, nil)
}

// Create godoc
// @Summary Upload material
// @Tags Admin Materials
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param type formData string true "notes, pyq, syllabus or model_paper"
// @Param description formData string false "Description"
// @Param subject_id formData int true "Subject ID"
// @Param category_id formData int false "Expected category"
// @Param department_id formData int false "Expected department"
// @Param year_id formData int false "Expected year"
// @Param semester_id formData int false "Expected semester"
// @Param file formData file false "PDF file"
// @Success 201 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /admin/materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	file, closeFile, err := uploadFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFile()

	material, err := h.service.Create(c.Request.Context(), req, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, material)
}

// Update godoc
// @Summary Update material metadata
// @Tags Admin Materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Param payload body service.UpdateMaterialRequest true "Material payload"
// @Success 200 {object} response.Envelope
// @Router /admin/materials/{id} [put]
func (h *MaterialHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	material, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, material, nil)
}

// Delete godoc
// @Summary Delete material
// @Description The stored PDF is removed asynchronously.
// @Tags Admin Materials
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 204
// @Router /admin/materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/internal/service"
	"github.com/noah-isme/studyhub-api/pkg/response"
)

// YearHandler handles study year endpoints.
type YearHandler struct {
	service *service.YearService
}

// NewYearHandler constructs a year handler.
func NewYearHandler(svc *service.YearService) *YearHandler {
	return &YearHandler{service: svc}
}

// List godoc
// @Summary List years
// @Tags Admin Years
// @Produce json
// @Security BearerAuth
// @Param department_id query int false "Filter by department"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/years [get]
func (h *YearHandler) List(c *gin.Context) {
	departmentID, err := queryInt64(c, "department_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	years, pagination, err := h.service.List(c.Request.Context(), models.YearFilter{DepartmentID: departmentID, Paging: pagingFromQuery(c)})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, years, pagination)
}

// Get godoc
// @Summary Get year by id
// @Tags Admin Years
// @Produce json
// @Security BearerAuth
// @Param id path int true "Year ID"
// @Success 200 {object} response.Envelope
// @Router /admin/years/{id} [get]
func (h *YearHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	year, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, year, nil)
}

// Create godoc
// @Summary Create year
// @Tags Admin Years
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateYearRequest true "Year payload"
// @Success 201 {object} response.Envelope
// @Router /admin/years [post]
func (h *YearHandler) Create(c *gin.Context) {
	var req service.CreateYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	year, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, year)
}

// Update godoc
// @Summary Update year number
// @Tags Admin Years
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Year ID"
// @Param payload body service.UpdateYearRequest true "Year payload"
// @Success 200 {object} response.Envelope
// @Router /admin/years/{id} [put]
func (h *YearHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	year, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, year, nil)
}

// Delete godoc
// @Summary Delete year
// @Tags Admin Years
// @Security BearerAuth
// @Param id path int true "Year ID"
// @Success 204
// @Router /admin/years/{id} [delete]
func (h *YearHandler) Delete(c *gin.Context) {
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

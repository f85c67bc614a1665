package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/pkg/response"
)

type hierarchyService interface {
	Options(ctx context.Context, sel models.HierarchySelection) (*models.HierarchyOptions, error)
}

// HierarchyHandler feeds the cascading selectors on admin forms.
type HierarchyHandler struct {
	service hierarchyService
}

// NewHierarchyHandler constructs a hierarchy handler.
func NewHierarchyHandler(svc hierarchyService) *HierarchyHandler {
	return &HierarchyHandler{service: svc}
}

// Options godoc
// @Summary Hierarchy selector options
// @Tags Admin Hierarchy
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "Selected category"
// @Param department_id query int false "Selected department"
// @Param year_id query int false "Selected year"
// @Param semester_id query int false "Selected semester"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/hierarchy [get]
func (h *HierarchyHandler) Options(c *gin.Context) {
	var sel models.HierarchySelection
	selectors := []struct {
		name string
		dst  **int64
	}{
		{"category_id", &sel.CategoryID},
		{"department_id", &sel.DepartmentID},
		{"year_id", &sel.YearID},
		{"semester_id", &sel.SemesterID},
	}
	for _, s := range selectors {
		v, err := queryInt64(c, s.name)
		if err != nil {
			response.Error(c, err)
			return
		}
		*s.dst = v
	}

	options, err := h.service.Options(c.Request.Context(), sel)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

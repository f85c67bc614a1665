package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/internal/service"
	"github.com/noah-isme/studyhub-api/pkg/response"
)

// OpinionHandler moderates subject opinions.
type OpinionHandler struct {
	service *service.OpinionService
}

// NewOpinionHandler constructs an opinion handler.
func NewOpinionHandler(svc *service.OpinionService) *OpinionHandler {
	return &OpinionHandler{service: svc}
}

// List godoc
// @Summary List opinions
// @Tags Admin Opinions
// @Produce json
// @Security BearerAuth
// @Param subject_id query int false "Filter by subject"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/opinions [get]
func (h *OpinionHandler) List(c *gin.Context) {
	subjectID, err := queryInt64(c, "subject_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	opinions, pagination, err := h.service.List(c.Request.Context(), models.OpinionFilter{SubjectID: subjectID, Paging: pagingFromQuery(c)})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, opinions, pagination)
}

// Delete godoc
// @Summary Delete opinion
// @Tags Admin Opinions
// @Security BearerAuth
// @Param id path int true "Opinion ID"
// @Success 204
// @Router /admin/opinions/{id} [delete]
func (h *OpinionHandler) Delete(c *gin.Context) {
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

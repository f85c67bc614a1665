package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/internal/service"
	"github.com/noah-isme/studyhub-api/pkg/response"
)

// ExamScheduleHandler publishes exam schedule PDFs.
type ExamScheduleHandler struct {
	service *service.ExamScheduleService
}

// NewExamScheduleHandler constructs an exam schedule handler.
func NewExamScheduleHandler(svc *service.ExamScheduleService) *ExamScheduleHandler {
	return &ExamScheduleHandler{service: svc}
}

// List godoc
// @Summary List exam schedules
// @Description Newest first. Served both publicly and under /admin.
// @Tags Exam Schedules
// @Produce json
// @Param semester_id query int false "Filter by semester"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /exam-schedules [get]
func (h *ExamScheduleHandler) List(c *gin.Context) {
	semesterID, err := queryInt64(c, "semester_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	schedules, pagination, err := h.service.List(c.Request.Context(), models.DocumentFilter{SemesterID: semesterID, Paging: pagingFromQuery(c)})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, pagination)
}

// Get godoc
// @Summary Get exam schedule by id
// @Tags Exam Schedules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam schedule ID"
// @Success 200 {object} response.Envelope
// @Router /admin/exam-schedules/{id} [get]
func (h *ExamScheduleHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	schedule, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Create godoc
// @Summary Upload exam schedule
// @Tags Exam Schedules
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param semester_id formData int true "Semester ID"
// @Param file formData file false "PDF file"
// @Success 201 {object} response.Envelope
// @Router /admin/exam-schedules [post]
func (h *ExamScheduleHandler) Create(c *gin.Context) {
	var req service.CreateExamScheduleRequest
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

	schedule, err := h.service.Create(c.Request.Context(), req, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Delete godoc
// @Summary Delete exam schedule
// @Tags Exam Schedules
// @Security BearerAuth
// @Param id path int true "Exam schedule ID"
// @Success 204
// @Router /admin/exam-schedules/{id} [delete]
func (h *ExamScheduleHandler) Delete(c *gin.Context) {
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

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/internal/service"
	"github.com/noah-isme/studyhub-api/pkg/response"
)

// TimetableHandler publishes class timetables.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs a timetable handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// List godoc
// @Summary List timetables
// @Tags Timetables
// @Produce json
// @Param semester_id query int false "Filter by semester"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	semesterID, err := queryInt64(c, "semester_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	timetables, pagination, err := h.service.List(c.Request.Context(), models.DocumentFilter{SemesterID: semesterID, Paging: pagingFromQuery(c)})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetables, pagination)
}

// Get godoc
// @Summary Get timetable by id
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Param id path int true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /admin/timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	timetable, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetable, nil)
}

// Create godoc
// @Summary Upload timetable
// @Tags Timetables
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param semester_id formData int false "Semester ID"
// @Param file formData file false "PDF file"
// @Success 201 {object} response.Envelope
// @Router /admin/timetables [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req service.CreateTimetableRequest
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

	timetable, err := h.service.Create(c.Request.Context(), req, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, timetable)
}

// Delete godoc
// @Summary Delete timetable
// @Tags Timetables
// @Security BearerAuth
// @Param id path int true "Timetable ID"
// @Success 204
// @Router /admin/timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
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

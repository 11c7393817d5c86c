package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-engine/internal/dto"
	"github.com/noah-isme/timetable-engine/internal/service"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
	"github.com/noah-isme/timetable-engine/pkg/response"
)

const (
	maxCourses   = 512
	maxLecturers = 512
	maxRooms     = 256
	maxGroups    = 512
)

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	Get(ctx context.Context, runID string) (*dto.GenerateTimetableResponse, error)
}

type runExporter interface {
	Render(ctx context.Context, runID, format, view string) (*service.ExportResult, error)
}

// TimetableHandler exposes the generation endpoints.
type TimetableHandler struct {
	service  timetableGenerator
	exporter runExporter
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService, exporter *service.ExportService) *TimetableHandler {
	return &TimetableHandler{service: svc, exporter: exporter}
}

// Generate godoc
// @Summary Generate a weekly timetable
// @Description Runs the generation engine over the submitted entities and returns room grids, lecturer statistics and course coverage. Residual conflicts are reported on the schedule, not turned into errors.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	if err := validateGenerateLimits(req); err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Get godoc
// @Summary Fetch a retained generation run
// @Tags Timetable
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/runs/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Download a run as CSV or PDF
// @Tags Timetable
// @Produce octet-stream
// @Param id path string true "Run ID"
// @Param format query string false "csv or pdf" default(csv)
// @Param view query string false "rooms or lecturers" default(rooms)
// @Success 200 {file} binary
// @Router /timetable/runs/{id}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	result, err := h.exporter.Render(c.Request.Context(), c.Param("id"), c.Query("format"), c.Query("view"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

func validateGenerateLimits(req dto.GenerateTimetableRequest) error {
	if len(req.Courses) > maxCourses {
		return appErrors.Clone(appErrors.ErrResourceExhausted, "courses exceed the supported limit")
	}
	if len(req.Lecturers) > maxLecturers {
		return appErrors.Clone(appErrors.ErrResourceExhausted, "lecturers exceed the supported limit")
	}
	if len(req.Rooms) > maxRooms {
		return appErrors.Clone(appErrors.ErrResourceExhausted, "rooms exceed the supported limit")
	}
	if len(req.Groups) > maxGroups {
		return appErrors.Clone(appErrors.ErrResourceExhausted, "groups exceed the supported limit")
	}
	return nil
}

package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitplan/studio-api/internal/dto"
	"github.com/fitplan/studio-api/internal/models"
	"github.com/fitplan/studio-api/internal/service"
	appErrors "github.com/fitplan/studio-api/pkg/errors"
	"github.com/fitplan/studio-api/pkg/response"
)

type optimizerRunner interface {
	Start(ctx context.Context, req dto.StartRunRequest) (*dto.RunResponse, error)
	List(ctx context.Context, query dto.RunListQuery) ([]dto.RunResponse, *models.Pagination, error)
	Get(ctx context.Context, id string) (*dto.RunResponse, error)
	Grid(ctx context.Context, id string) (*dto.GridResponse, error)
	Trace(ctx context.Context, id string) (*dto.TraceResponse, error)
	Slots(ctx context.Context, id string) (*models.OptimizationRun, []models.SlotAssignment, error)
	Cancel(ctx context.Context, id string) (*dto.RunResponse, error)
}

type runExporter interface {
	Export(run *models.OptimizationRun, slots []models.SlotAssignment, format string) (*dto.ExportResponse, error)
	Resolve(token string) (*service.ExportDownload, error)
}

// RunHandler exposes the optimization run endpoints.
type RunHandler struct {
	optimizer optimizerRunner
	exporter  runExporter
}

// NewRunHandler constructs the handler.
func NewRunHandler(optimizer *service.OptimizerService, exporter *service.ExportService) *RunHandler {
	return &RunHandler{optimizer: optimizer, exporter: exporter}
}

// Start godoc
// @Summary Queue a new optimization run
// @Tags Runs
// @Accept json
// @Produce json
// @Param payload body dto.StartRunRequest true "Run payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /runs [post]
func (h *RunHandler) Start(c *gin.Context) {
	var req dto.StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid run payload"))
		return
	}
	run, err := h.optimizer.Start(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, run, nil)
}

// List godoc
// @Summary List optimization runs
// @Tags Runs
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /runs [get]
func (h *RunHandler) List(c *gin.Context) {
	query := dto.RunListQuery{
		Status:   c.Query("status"),
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "pageSize"),
	}
	runs, pagination, err := h.optimizer.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, pagination)
}

// Get godoc
// @Summary Get one optimization run
// @Tags Runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /runs/{id} [get]
func (h *RunHandler) Get(c *gin.Context) {
	run, err := h.optimizer.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// Grid godoc
// @Summary Get the finished timetable of a completed run
// @Tags Runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /runs/{id}/grid [get]
func (h *RunHandler) Grid(c *gin.Context) {
	grid, err := h.optimizer.Grid(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// Trace godoc
// @Summary Get the cost trace of a completed run
// @Tags Runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /runs/{id}/trace [get]
func (h *RunHandler) Trace(c *gin.Context) {
	trace, err := h.optimizer.Trace(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trace, nil)
}

// Cancel godoc
// @Summary Cancel a queued or running run
// @Tags Runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /runs/{id} [delete]
func (h *RunHandler) Cancel(c *gin.Context) {
	run, err := h.optimizer.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// Export godoc
// @Summary Render a completed run to CSV or PDF
// @Tags Runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Param payload body dto.ExportRequest true "Export payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /runs/{id}/export [post]
func (h *RunHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	run, slots, err := h.optimizer.Slots(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.Export(run, slots, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download a rendered export by signed token
// @Tags Runs
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200
// @Failure 401 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *RunHandler) Download(c *gin.Context) {
	download, err := h.exporter.Resolve(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.DataFromReader(http.StatusOK, info.Size(), download.ContentType, download.File, nil)
}

func intQuery(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

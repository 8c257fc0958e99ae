package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/fitplan/studio-api/internal/dto"
	"github.com/fitplan/studio-api/internal/models"
	"github.com/fitplan/studio-api/internal/service"
	appErrors "github.com/fitplan/studio-api/pkg/errors"
)

type optimizerMock struct {
	started  dto.StartRunRequest
	startRes *dto.RunResponse
	startErr error
	getRes   *dto.RunResponse
	getErr   error
	gridRes  *dto.GridResponse
	gridErr  error
	cancelID string
}

func (m *optimizerMock) Start(ctx context.Context, req dto.StartRunRequest) (*dto.RunResponse, error) {
	m.started = req
	return m.startRes, m.startErr
}

func (m *optimizerMock) List(ctx context.Context, query dto.RunListQuery) ([]dto.RunResponse, *models.Pagination, error) {
	return []dto.RunResponse{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (m *optimizerMock) Get(ctx context.Context, id string) (*dto.RunResponse, error) {
	return m.getRes, m.getErr
}

func (m *optimizerMock) Grid(ctx context.Context, id string) (*dto.GridResponse, error) {
	return m.gridRes, m.gridErr
}

func (m *optimizerMock) Trace(ctx context.Context, id string) (*dto.TraceResponse, error) {
	return &dto.TraceResponse{RunID: id}, nil
}

func (m *optimizerMock) Slots(ctx context.Context, id string) (*models.OptimizationRun, []models.SlotAssignment, error) {
	return &models.OptimizationRun{ID: id, Status: models.RunStatusCompleted}, nil, nil
}

func (m *optimizerMock) Cancel(ctx context.Context, id string) (*dto.RunResponse, error) {
	m.cancelID = id
	return &dto.RunResponse{ID: id, Status: string(models.RunStatusCanceled)}, nil
}

type exporterMock struct {
	format string
}

func (m *exporterMock) Export(run *models.OptimizationRun, slots []models.SlotAssignment, format string) (*dto.ExportResponse, error) {
	m.format = format
	return &dto.ExportResponse{RunID: run.ID, Format: format, Token: "token-1"}, nil
}

func (m *exporterMock) Resolve(token string) (*service.ExportDownload, error) {
	return nil, appErrors.ErrUnauthorized
}

func testRunContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestRunHandlerStartAccepted(t *testing.T) {
	mockSvc := &optimizerMock{startRes: &dto.RunResponse{ID: "run-1", Status: "QUEUED"}}
	handler := &RunHandler{optimizer: mockSvc, exporter: &exporterMock{}}

	c, w := testRunContext(t, http.MethodPost, "/runs", []byte(`{"label":"spring","seed":5}`))
	handler.Start(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, "spring", mockSvc.started.Label)
	require.Equal(t, int64(5), mockSvc.started.Seed)
}

func TestRunHandlerStartRejectsMalformedJSON(t *testing.T) {
	handler := &RunHandler{optimizer: &optimizerMock{}, exporter: &exporterMock{}}

	c, w := testRunContext(t, http.MethodPost, "/runs", []byte(`{"label":`))
	handler.Start(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunHandlerStartPropagatesServiceError(t *testing.T) {
	mockSvc := &optimizerMock{startErr: appErrors.Clone(appErrors.ErrValidation, "alpha out of range")}
	handler := &RunHandler{optimizer: mockSvc, exporter: &exporterMock{}}

	c, w := testRunContext(t, http.MethodPost, "/runs", []byte(`{}`))
	handler.Start(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
}

func TestRunHandlerGridConflict(t *testing.T) {
	mockSvc := &optimizerMock{gridErr: appErrors.Clone(appErrors.ErrConflict, "run is RUNNING")}
	handler := &RunHandler{optimizer: mockSvc, exporter: &exporterMock{}}

	c, w := testRunContext(t, http.MethodGet, "/runs/run-1/grid", nil)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}
	handler.Grid(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestRunHandlerCancelUsesPathParam(t *testing.T) {
	mockSvc := &optimizerMock{}
	handler := &RunHandler{optimizer: mockSvc, exporter: &exporterMock{}}

	c, w := testRunContext(t, http.MethodDelete, "/runs/run-9", nil)
	c.Params = gin.Params{{Key: "id", Value: "run-9"}}
	handler.Cancel(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "run-9", mockSvc.cancelID)
}

func TestRunHandlerExportValidatesFormat(t *testing.T) {
	handler := &RunHandler{optimizer: &optimizerMock{}, exporter: &exporterMock{}}

	c, w := testRunContext(t, http.MethodPost, "/runs/run-1/export", []byte(`{"format":"csv"}`))
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}
	handler.Export(c)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRunHandlerDownloadRejectsBadToken(t *testing.T) {
	handler := &RunHandler{optimizer: &optimizerMock{}, exporter: &exporterMock{}}

	c, w := testRunContext(t, http.MethodGet, "/exports/bogus", nil)
	c.Params = gin.Params{{Key: "token", Value: "bogus"}}
	handler.Download(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

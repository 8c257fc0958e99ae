package service

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fitplan/studio-api/internal/dto"
	"github.com/fitplan/studio-api/internal/models"
	appErrors "github.com/fitplan/studio-api/pkg/errors"
	"github.com/fitplan/studio-api/pkg/export"
	"github.com/fitplan/studio-api/pkg/storage"
)

// Export formats supported by the API.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportDownload aggregates resolved download data.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
}

// ExportService renders completed timetables into downloadable files.
type ExportService struct {
	storage fileStorage
	signer  *storage.SignedURLSigner
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(files fileStorage, signer *storage.SignedURLSigner, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		storage: files,
		signer:  signer,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// Export renders the run's timetable in the requested format and returns a
// signed download token.
func (s *ExportService) Export(run *models.OptimizationRun, slots []models.SlotAssignment, format string) (*dto.ExportResponse, error) {
	dataset := timetableDataset(slots)

	var (
		payload []byte
		err     error
	)
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		title := run.Label
		if title == "" {
			title = fmt.Sprintf("Timetable %s", run.ID)
		}
		payload, err = s.pdf.Render(dataset, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	relPath := fmt.Sprintf("%s/timetable.%s", run.ID, format)
	if _, err := s.storage.Save(relPath, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(run.ID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}

	s.logger.Info("export rendered",
		zap.String("run_id", run.ID),
		zap.String("format", format),
		zap.Int("bytes", len(payload)),
	)

	return &dto.ExportResponse{
		RunID:     run.ID,
		Format:    format,
		Filename:  fmt.Sprintf("timetable-%s.%s", run.ID, format),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve validates a download token and opens the referenced file.
func (s *ExportService) Resolve(token string) (*ExportDownload, error) {
	runID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}

	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}

	format := strings.TrimPrefix(strings.ToLower(lastDot(relPath)), ".")
	contentType := "application/octet-stream"
	switch format {
	case ExportFormatCSV:
		contentType = "text/csv"
	case ExportFormatPDF:
		contentType = "application/pdf"
	}

	return &ExportDownload{
		File:        file,
		Filename:    fmt.Sprintf("timetable-%s.%s", runID, format),
		ContentType: contentType,
	}, nil
}

func lastDot(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return ""
	}
	return path[idx:]
}

func timetableDataset(slots []models.SlotAssignment) export.Dataset {
	headers := []string{"Classroom", "Day", "Slot", "Category", "Instructor", "Headcount", "Participants"}
	sorted := make([]models.SlotAssignment, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Classroom != b.Classroom {
			return a.Classroom < b.Classroom
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Slot < b.Slot
	})

	rows := make([]map[string]string, 0, len(sorted))
	for _, slot := range sorted {
		ids := make([]string, 0, len(slot.Participants))
		for _, id := range slot.Participants {
			ids = append(ids, strconv.Itoa(id))
		}
		rows = append(rows, map[string]string{
			"Classroom":    strconv.Itoa(slot.Classroom),
			"Day":          strconv.Itoa(slot.Day),
			"Slot":         strconv.Itoa(slot.Slot),
			"Category":     slot.Category,
			"Instructor":   strconv.Itoa(slot.Instructor),
			"Headcount":    strconv.Itoa(slot.Headcount),
			"Participants": strings.Join(ids, " "),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-engine/internal/dto"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
	"github.com/noah-isme/timetable-engine/pkg/export"
)

// Export formats and views.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"

	ExportViewRooms     = "rooms"
	ExportViewLecturers = "lecturers"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, opts export.RenderOptions) ([]byte, error)
}

// ExportResult is one rendered download.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ExportService renders a stored run into downloadable documents. Files
// stream directly to the caller; nothing is persisted server side.
type ExportService struct {
	runs   *TimetableService
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService over the run store.
func NewExportService(runs *TimetableService, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{runs: runs, csv: csv, pdf: pdf, logger: logger}
}

// Render produces the requested view of a run in the requested format.
func (s *ExportService) Render(ctx context.Context, runID, format, view string) (*ExportResult, error) {
	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, err
	}

	var dataset export.Dataset
	var title string
	switch view {
	case ExportViewRooms, "":
		dataset, title = buildRoomDataset(run)
		view = ExportViewRooms
	case ExportViewLecturers:
		dataset, title = buildLecturerDataset(run)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported view %q", view))
	}

	var payload []byte
	var contentType string
	switch format {
	case ExportFormatCSV, "":
		format = ExportFormatCSV
		contentType = "text/csv"
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		contentType = "application/pdf"
		payload, err = s.pdf.Render(dataset, title, export.RenderOptions{Landscape: true})
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render export")
	}

	return &ExportResult{
		Payload:     payload,
		ContentType: contentType,
		Filename:    buildExportFilename(runID, view, format),
	}, nil
}

func buildExportFilename(runID, view, format string) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("timetable_%s_%s_%s.%s", view, short, timestamp, format)
}

func buildRoomDataset(run *dto.GenerateTimetableResponse) (export.Dataset, string) {
	headers := []string{"Room", "Type", "Day", "Slot", "Course", "Lecturer", "Groups"}
	rows := make([]map[string]string, 0)
	for _, grid := range run.RoomGrids {
		for d, day := range grid.Days {
			for slot, cells := range grid.Cells[d] {
				for _, cell := range cells {
					rows = append(rows, map[string]string{
						"Room":     grid.Room,
						"Type":     grid.Type,
						"Day":      day,
						"Slot":     fmt.Sprintf("%d", slot+1),
						"Course":   cell.Course,
						"Lecturer": cell.Lecturer,
						"Groups":   strings.Join(cell.Groups, " "),
					})
				}
			}
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}, "Room Timetable"
}

func buildLecturerDataset(run *dto.GenerateTimetableResponse) (export.Dataset, string) {
	headers := []string{"Lecturer", "Scheduled Hours", "Required Hours", "Status", "Day", "Slot", "Course", "Room", "Groups"}
	rows := make([]map[string]string, 0)
	for _, stat := range run.Lecturers {
		if len(stat.Slots) == 0 {
			rows = append(rows, map[string]string{
				"Lecturer":        stat.Lecturer,
				"Scheduled Hours": fmt.Sprintf("%d", stat.ScheduledHours),
				"Required Hours":  fmt.Sprintf("%d", stat.RequiredHours),
				"Status":          stat.Status,
			})
			continue
		}
		for _, slot := range stat.Slots {
			rows = append(rows, map[string]string{
				"Lecturer":        stat.Lecturer,
				"Scheduled Hours": fmt.Sprintf("%d", stat.ScheduledHours),
				"Required Hours":  fmt.Sprintf("%d", stat.RequiredHours),
				"Status":          stat.Status,
				"Day":             slot.Day,
				"Slot":            fmt.Sprintf("%d", slot.Slot),
				"Course":          slot.Module,
				"Room":            slot.Room,
				"Groups":          strings.Join(slot.Groups, " "),
			})
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}, "Lecturer Workload"
}

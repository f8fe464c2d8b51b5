package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/zirdl/bunubon/models"
	aws_pkg "github.com/zirdl/bunubon/pkg/aws"
	"github.com/zirdl/bunubon/pkg/logger"
	"github.com/zirdl/bunubon/repository"
	"go.uber.org/zap"
)

// Export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

const (
	archiveLinkTTL  = 15 * time.Minute
	titlesSheetName = "Titles"
	summarySheet    = "Summary"
)

var exportHeader = []string{
	"Serial Number", "Municipality", "Title Type", "Subtype", "Beneficiary",
	"Lot Number", "Area", "Status", "Date Issued", "Notes",
}

// ExportFile is a rendered export.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportArchive is an export uploaded to object storage.
type ExportArchive struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService renders title listings as CSV or XLSX.
type ExportService interface {
	Export(ctx context.Context, format string, filter models.TitleFilter) (*ExportFile, *ServiceError)
	Archive(ctx context.Context, format string, filter models.TitleFilter) (*ExportArchive, *ServiceError)
}

type exportServiceImpl struct {
	titles  repository.TitleRepository
	store   aws_pkg.ObjectStore
	prefix  string
	metrics aws_pkg.MetricsRecorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService creates a new ExportService. store may be nil, in which
// case Archive reports that archiving is unavailable.
func NewExportService(
	titles repository.TitleRepository,
	store aws_pkg.ObjectStore,
	prefix string,
	metrics aws_pkg.MetricsRecorder,
	logger *zap.Logger,
) ExportService {
	return &exportServiceImpl{
		titles:  titles,
		store:   store,
		prefix:  prefix,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *exportServiceImpl) Export(ctx context.Context, format string, filter models.TitleFilter) (*ExportFile, *ServiceError) {
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatXLSX {
		return nil, badRequest("Unsupported export format: " + format)
	}

	titles, err := s.titles.ListAll(ctx, filter)
	if err != nil {
		logger.FromContext(ctx, s.logger).Error("Failed to load titles for export", zap.Error(err))
		return nil, internal("Failed to export titles")
	}

	stamp := s.now().Format("20060102-150405")
	var file *ExportFile
	switch format {
	case ExportFormatXLSX:
		body, err := renderXLSX(titles)
		if err != nil {
			s.logger.Error("Failed to render xlsx export", zap.Error(err))
			return nil, internal("Failed to export titles")
		}
		file = &ExportFile{
			Filename:    "titles-" + stamp + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        body,
		}
	default:
		body, err := renderCSV(titles)
		if err != nil {
			s.logger.Error("Failed to render csv export", zap.Error(err))
			return nil, internal("Failed to export titles")
		}
		file = &ExportFile{Filename: "titles-" + stamp + ".csv", ContentType: "text/csv", Body: body}
	}

	logger.FromContext(ctx, s.logger).Info("Titles exported", zap.String("format", format), zap.Int("rows", len(titles)))
	recordCount(s.metrics, aws_pkg.MetricExportsCreated, map[string]string{"Format": format})
	return file, nil
}

func (s *exportServiceImpl) Archive(ctx context.Context, format string, filter models.TitleFilter) (*ExportArchive, *ServiceError) {
	if s.store == nil {
		return nil, &ServiceError{StatusCode: 503, Message: "Export archiving is not configured"}
	}

	file, svcErr := s.Export(ctx, format, filter)
	if svcErr != nil {
		return nil, svcErr
	}

	key := s.prefix + file.Filename
	if err := s.store.Put(ctx, key, file.ContentType, file.Body); err != nil {
		s.logger.Error("Failed to upload export archive", zap.String("key", key), zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to upload export archive"}
	}

	url, err := s.store.PresignGet(ctx, key, archiveLinkTTL)
	if err != nil {
		s.logger.Error("Failed to presign export archive", zap.String("key", key), zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to create download link"}
	}

	return &ExportArchive{Key: key, URL: url, ExpiresAt: s.now().Add(archiveLinkTTL)}, nil
}

func exportRow(t models.Title) []string {
	municipality := ""
	if t.Municipality != nil {
		municipality = t.Municipality.Name
	}
	return []string{
		t.SerialNumber,
		municipality,
		t.TitleType,
		t.Subtype,
		t.BeneficiaryName,
		t.LotNumber,
		strconv.FormatFloat(t.Area, 'f', -1, 64),
		t.Status,
		t.DateIssued,
		t.Notes,
	}
}

func renderCSV(titles []models.Title) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, t := range titles {
		if err := w.Write(exportRow(t)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(titles []models.Title) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", titlesSheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(titlesSheetName, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, t := range titles {
		row := exportRow(t)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cells[6] = t.Area

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(titlesSheetName, cell, &cells); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Municipality", "Titles", "Area"}); err != nil {
		return nil, err
	}
	for i, row := range summarizeByMunicipality(titles) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{row.Label, row.Count, row.Area}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func summarizeByMunicipality(titles []models.Title) []models.LabelCount {
	byName := make(map[string]*models.LabelCount)
	for _, t := range titles {
		name := ""
		if t.Municipality != nil {
			name = t.Municipality.Name
		}
		lc, ok := byName[name]
		if !ok {
			lc = &models.LabelCount{Label: name}
			byName[name] = lc
		}
		lc.Count++
		lc.Area += t.Area
	}

	out := make([]models.LabelCount, 0, len(byName))
	for _, lc := range byName {
		out = append(out, *lc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

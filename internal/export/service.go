package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/RahilHalai7/CSI-Hackathon/internal/jobstore"
)

// Service produces XLSX bytes for job-history exports.
type Service struct {
	store  *jobstore.Store
	logger *slog.Logger
}

func NewService(store *jobstore.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportJobsXLSX returns an XLSX workbook (as bytes) listing processed jobs,
// newest first, up to limit (0 = all).
func (s *Service) ExportJobsXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	jobs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Jobs"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Created",
		"Source",
		"Kind",
		"Method",
		"Language",
		"Speakers",
		"Status",
		"Output Preview",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, j := range jobs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, j.CreatedAt.Format("2006-01-02 15:04:05"))
		write(2, j.Source)
		write(3, j.Kind)
		write(4, j.Method)
		write(5, j.Language)
		write(6, j.SpeakerCount)
		write(7, string(j.Status))
		write(8, truncate(j.Output, 140))
		write(9, truncate(j.Error, 140))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 20) // created
	_ = f.SetColWidth(sheet, "B", "B", 36) // source
	_ = f.SetColWidth(sheet, "C", "E", 12) // kind/method/language
	_ = f.SetColWidth(sheet, "G", "G", 12) // status
	_ = f.SetColWidth(sheet, "H", "I", 60) // preview/error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(jobs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// truncate cuts on a rune boundary so preview cells stay valid UTF-8.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := n - 1
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/maritime-tracker/internal/maritime"
	"github.com/joseph-ayodele/maritime-tracker/internal/repository"
)

const (
	SheetName     = "Operations"
	HeaderPath    = "File Path"
	HeaderJobTime = "Processed At"
)

// Service produces XLSX bytes for parsed extraction jobs.
type Service struct {
	jobsRepo repository.ExtractJobRepository
	logger   *slog.Logger
}

func NewService(jobs repository.ExtractJobRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{jobsRepo: jobs, logger: logger}
}

// Headers returns the column headers: file path, job time, then every vocabulary field.
func Headers() []string {
	return append([]string{HeaderPath, HeaderJobTime}, maritime.Vocabulary()...)
}

// ExportRecordsXLSX returns a workbook with one row per parsed job finished in the date window.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> all parsed jobs.
func (s *Service) ExportRecordsXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	var lo, hi time.Time
	if from != nil {
		lo = dateOnly(*from)
	}
	if to != nil {
		hi = dateOnly(*to).AddDate(0, 0, 1)
	} else if from != nil {
		hi = dateOnly(time.Now()).AddDate(0, 0, 1)
	}

	recs, err := s.jobsRepo.ListParsed(ctx, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("query parsed jobs: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("xlsx close failed", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	headers := Headers()
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	row := 2
	for _, r := range recs {
		rec, err := maritime.DecodeRecord(r.RecordJSON)
		if err != nil {
			s.logger.Warn("skipping job with unreadable record", "job_id", r.JobID, "error", err)
			continue
		}
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		write(1, r.SourcePath)
		write(2, r.FinishedAt.UTC().Format(time.RFC3339))
		for i, name := range headers[2:] {
			if v, ok := rec[name]; ok {
				write(i+3, v)
			}
		}
		row++
	}

	_ = f.SetColWidth(SheetName, "A", "A", 60) // path
	_ = f.SetColWidth(SheetName, "B", "B", 22) // time
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		s.logger.Debug("freeze header row failed", "error", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export xlsx ok",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

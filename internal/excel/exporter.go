package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordnet/internal/retention"
	"github.com/example/wordnet/pkg/models"
)

// ExportConfig defines the export configuration
type ExportConfig struct {
	FilePath string // Path to the Excel or CSV file
}

var header = []string{
	"Word", "Meaning", "Morphemes", "Strength", "Mastered", "Reviews",
	"Last Reviewed", "Due At", "Interval (days)", "Easiness", "Streak", "Estimated Review",
}

// ExportProgress writes one row per word to an .xlsx or .csv file,
// chosen by the file extension. It returns the number of rows written.
func ExportProgress(config ExportConfig, progress []models.Progress) (int, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	switch ext {
	case ".xlsx":
		return exportExcel(config, progress)
	case ".csv":
		return exportCSV(config, progress)
	default:
		return 0, fmt.Errorf("unsupported file format %q, use .xlsx or .csv", ext)
	}
}

func row(p models.Progress) []string {
	mastered := "no"
	if retention.IsMastered(p.Word) {
		mastered = "yes"
	}
	return []string{
		p.Word.ID,
		p.Word.Meaning,
		strings.Join(p.Word.Morphemes, " "),
		strconv.FormatFloat(p.Word.Strength, 'f', 2, 64),
		mastered,
		strconv.Itoa(p.Word.ReviewCount),
		p.Word.LastReviewedAt.Format(time.RFC3339),
		p.Entry.DueAt.Format(time.RFC3339),
		strconv.Itoa(p.Entry.IntervalDays),
		strconv.FormatFloat(p.Entry.EasinessFactor, 'f', 2, 64),
		strconv.Itoa(p.Entry.Streak),
		p.EstimatedReview.Format(time.RFC3339),
	}
}

func exportExcel(config ExportConfig, progress []models.Progress) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Nothing counts as exported until the file is saved.
	if err := writeRows(f, f.GetSheetName(0), progress); err != nil {
		return 0, err
	}
	if err := f.SaveAs(config.FilePath); err != nil {
		return 0, fmt.Errorf("failed to save %s: %w", config.FilePath, err)
	}
	return len(progress), nil
}

func writeRows(f *excelize.File, sheet string, progress []models.Progress) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, p := range progress {
		cells := toCells(p)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row for %q: %w", p.Word.ID, err)
		}
	}
	return nil
}

// toCells keeps numbers numeric in the spreadsheet.
func toCells(p models.Progress) []interface{} {
	text := row(p)
	cells := make([]interface{}, len(text))
	for i, v := range text {
		cells[i] = v
	}
	cells[3] = p.Word.Strength
	cells[5] = p.Word.ReviewCount
	cells[8] = p.Entry.IntervalDays
	cells[9] = p.Entry.EasinessFactor
	cells[10] = p.Entry.Streak
	return cells
}

func exportCSV(config ExportConfig, progress []models.Progress) (int, error) {
	file, err := os.Create(config.FilePath)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", config.FilePath, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return 0, err
	}
	for _, p := range progress {
		if err := w.Write(row(p)); err != nil {
			return 0, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", config.FilePath, err)
	}
	return len(progress), file.Close()
}

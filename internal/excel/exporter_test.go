package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordnet/pkg/models"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func sampleProgress() []models.Progress {
	w := models.NewWord("construct", t0)
	w.Meaning = "to build"
	w.Morphemes = []string{"con", "struct"}
	w.Strength = 0.85
	w.ReviewCount = 4
	return []models.Progress{{
		Word:            w,
		Entry:           models.ReviewEntry{WordID: "construct", DueAt: t0.Add(6 * 24 * time.Hour), IntervalDays: 6, EasinessFactor: 2.6, Streak: 2},
		EstimatedReview: t0.Add(44 * 24 * time.Hour),
	}}
}

func TestExportExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.xlsx")
	n, err := ExportProgress(ExportConfig{FilePath: path}, sampleProgress())
	if err != nil {
		t.Fatalf("ExportProgress: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][0] != "Word" || rows[1][0] != "construct" || rows[1][2] != "con struct" || rows[1][4] != "yes" {
		t.Errorf("row = %v", rows[1])
	}
	if rows[1][8] != "6" {
		t.Errorf("interval cell = %q", rows[1][8])
	}
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.csv")
	if _, err := ExportProgress(ExportConfig{FilePath: path}, sampleProgress()); err != nil {
		t.Fatalf("ExportProgress: %v", err)
	}
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || len(records[1]) != len(header) {
		t.Fatalf("records = %v", records)
	}
	if records[1][3] != "0.85" || records[1][9] != "2.60" || records[1][7] != "2025-06-21T10:00:00Z" {
		t.Errorf("record = %v", records[1])
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	if _, err := ExportProgress(ExportConfig{FilePath: "progress.json"}, nil); err == nil {
		t.Fatal("expected an error for .json")
	}
}

func TestWriteRowsUnknownSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := writeRows(f, "Missing", sampleProgress()); err == nil {
		t.Fatal("expected an error writing to a missing sheet")
	}
}

func TestExportExcelFailureReportsNoRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "progress.xlsx")
	n, err := ExportProgress(ExportConfig{FilePath: path}, sampleProgress())
	if err == nil {
		t.Fatal("expected an error saving into a missing directory")
	}
	if n != 0 {
		t.Errorf("rows = %d, want 0", n)
	}
}

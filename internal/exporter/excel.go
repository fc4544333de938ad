package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"covidcli/pkg/contracts/domain"
)

// ExcelWriter exports the derived dataset as an Excel workbook with one
// sheet for the full derived table and one for the latest snapshot.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// WriteWorkbook writes the workbook to filePath
func (w *ExcelWriter) WriteWorkbook(filePath string, ds *domain.Dataset, snap *domain.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const derivedSheet = "Derived"
	if err := f.SetSheetName("Sheet1", derivedSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeHeaderRow(f, derivedSheet, derivedHeaders); err != nil {
		return err
	}
	for i, r := range ds.Records {
		row := i + 2
		values := []interface{}{
			r.Country, r.Date.Format("2006-01-02"),
			r.TotalCases, r.NewCases, r.TotalDeaths, r.NewDeaths,
			r.TotalVaccinations, r.PeopleVaccinated, r.Population,
			r.DeathRate, r.VaccinationPct,
		}
		if err := writeRow(f, derivedSheet, row, values); err != nil {
			return err
		}
	}

	const snapshotSheet = "Latest Snapshot"
	if _, err := f.NewSheet(snapshotSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	snapHeaders := []string{"Country", "Date", "TotalCases", "TotalDeaths", "DeathRate", "VaccinationPct"}
	if err := writeHeaderRow(f, snapshotSheet, snapHeaders); err != nil {
		return err
	}
	for i, r := range snap.Records {
		values := []interface{}{
			r.Country, r.Date.Format("2006-01-02"),
			r.TotalCases, r.TotalDeaths, r.DeathRate, r.VaccinationPct,
		}
		if err := writeRow(f, snapshotSheet, i+2, values); err != nil {
			return err
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Wrote Excel workbook",
		slog.String("file_path", filePath),
		slog.Int("derived_rows", len(ds.Records)),
		slog.Int("snapshot_rows", len(snap.Records)))

	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return writeRow(f, sheet, 1, values)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file paths used by the pipeline.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	ChartsDir  string
	LogsDir    string

	// Well-known report files
	DerivedCSV   string
	InsightsCSV  string
	WorkbookXLSX string
}

// NewPaths builds the path set from configuration. Relative directories are
// resolved against cfg.BaseDir, which defaults to the current working
// directory (the input CSV conventionally sits next to the invocation).
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		base = wd
	}

	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}

	p := &Paths{
		BaseDir:    base,
		DataDir:    resolve(cfg.DataDir),
		ReportsDir: resolve(cfg.ReportsDir),
		ChartsDir:  resolve(cfg.ChartsDir),
		LogsDir:    resolve(cfg.LogsDir),
	}
	p.DerivedCSV = p.GetReportPath("derived_metrics.csv")
	p.InsightsCSV = p.GetReportPath("insights.csv")
	p.WorkbookXLSX = p.GetReportPath("covid_summary.xlsx")
	return p, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.ReportsDir, p.ChartsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetChartPath returns the full path for a chart image
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// ResolveInput resolves the input CSV path against the base directory
func (p *Paths) ResolveInput(inputFile string) string {
	if filepath.IsAbs(inputFile) {
		return inputFile
	}
	return filepath.Join(p.BaseDir, inputFile)
}

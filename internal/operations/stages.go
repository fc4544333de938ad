package operations

import (
	"context"
	"log/slog"

	"covidcli/internal/chart"
	"covidcli/internal/config"
	"covidcli/internal/dataprocessing"
	"covidcli/internal/exporter"
	"covidcli/internal/infrastructure"
)

// LoadStage parses the input CSV into the pipeline state.
type LoadStage struct{}

// NewLoadStage creates the load stage
func NewLoadStage() *LoadStage { return &LoadStage{} }

// Name implements Stage
func (s *LoadStage) Name() string { return "load" }

// Execute implements Stage
func (s *LoadStage) Execute(ctx context.Context, state *State) error {
	ds, err := dataprocessing.ParseFile(state.InputFile)
	if err != nil {
		return err
	}
	state.Dataset = ds
	return nil
}

// CleanStage filters to the configured countries and repairs series gaps.
type CleanStage struct {
	cleaner *dataprocessing.Cleaner
}

// NewCleanStage creates the clean stage for the configured countries
func NewCleanStage(logger *slog.Logger, countries []string) *CleanStage {
	return &CleanStage{cleaner: dataprocessing.NewCleaner(logger, countries)}
}

// Name implements Stage
func (s *CleanStage) Name() string { return "clean" }

// Execute implements Stage
func (s *CleanStage) Execute(ctx context.Context, state *State) error {
	state.Dataset = s.cleaner.Clean(state.Dataset)
	return nil
}

// DeriveStage computes derived metrics and the latest snapshot.
type DeriveStage struct{}

// NewDeriveStage creates the derive stage
func NewDeriveStage() *DeriveStage { return &DeriveStage{} }

// Name implements Stage
func (s *DeriveStage) Name() string { return "derive" }

// Execute implements Stage
func (s *DeriveStage) Execute(ctx context.Context, state *State) error {
	dataprocessing.Derive(state.Dataset)
	state.Snapshot = dataprocessing.LatestSnapshot(state.Dataset)
	return nil
}

// ChartStage renders the chart PNGs. It never fails the pipeline: the
// renderer logs and skips charts it cannot produce.
type ChartStage struct {
	renderer     *chart.Renderer
	focusCountry string
}

// NewChartStage creates the chart stage
func NewChartStage(logger *slog.Logger, cfg config.AnalysisConfig, chartsDir string) *ChartStage {
	return &ChartStage{
		renderer: chart.NewRenderer(logger, chart.Options{
			OutDir: chartsDir,
			Width:  cfg.ChartWidth,
			Height: cfg.ChartHeight,
		}),
		focusCountry: cfg.FocusCountry,
	}
}

// Name implements Stage
func (s *ChartStage) Name() string { return "charts" }

// Execute implements Stage
func (s *ChartStage) Execute(ctx context.Context, state *State) error {
	if state.Dataset.Empty() {
		infrastructure.LoggerWithContext(ctx).Warn("Dataset is empty, no charts to render")
		return nil
	}
	state.ChartFiles = s.renderer.RenderAll(state.Dataset, state.Snapshot, s.focusCountry)
	return nil
}

// ReportStage generates insights and writes all report files.
type ReportStage struct {
	summarizer  *dataprocessing.Summarizer
	csvWriter   *exporter.CSVWriter
	excelWriter *exporter.ExcelWriter
	paths       *config.Paths
}

// NewReportStage creates the report stage
func NewReportStage(logger *slog.Logger, cfg config.AnalysisConfig, paths *config.Paths) *ReportStage {
	return &ReportStage{
		summarizer: dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{
			TrailingWindowDays: cfg.TrailingWindowDays,
		}),
		csvWriter:   exporter.NewCSVWriter(),
		excelWriter: exporter.NewExcelWriter(logger),
		paths:       paths,
	}
}

// Name implements Stage
func (s *ReportStage) Name() string { return "report" }

// Execute implements Stage
func (s *ReportStage) Execute(ctx context.Context, state *State) error {
	state.Insights = s.summarizer.Summarize(state.Dataset, state.Snapshot)

	if state.Dataset.Empty() {
		infrastructure.LoggerWithContext(ctx).Warn("Dataset is empty, skipping report files")
		return nil
	}

	if err := s.csvWriter.WriteDerivedTable(s.paths.DerivedCSV, state.Dataset); err != nil {
		return err
	}
	state.ReportFiles = append(state.ReportFiles, s.paths.DerivedCSV)

	if err := s.csvWriter.WriteInsights(s.paths.InsightsCSV, state.Insights, state.Snapshot); err != nil {
		return err
	}
	state.ReportFiles = append(state.ReportFiles, s.paths.InsightsCSV)

	if err := s.excelWriter.WriteWorkbook(s.paths.WorkbookXLSX, state.Dataset, state.Snapshot); err != nil {
		return err
	}
	state.ReportFiles = append(state.ReportFiles, s.paths.WorkbookXLSX)

	return nil
}

// DefaultStages assembles the standard pipeline in execution order.
func DefaultStages(logger *slog.Logger, cfg config.AnalysisConfig, paths *config.Paths) []Stage {
	return []Stage{
		NewLoadStage(),
		NewCleanStage(logger, cfg.Countries),
		NewDeriveStage(),
		NewChartStage(logger, cfg, paths.ChartsDir),
		NewReportStage(logger, cfg, paths),
	}
}

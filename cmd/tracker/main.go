package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"covidcli/internal/config"
	"covidcli/internal/infrastructure"
	"covidcli/internal/operations"
	"covidcli/internal/validation"
	"covidcli/pkg/contracts"
)

func main() {
	input := flag.String("input", "", "input CSV file (defaults to owid-covid-data.csv in the working directory)")
	outDir := flag.String("out", "", "base directory for reports, charts and logs (overrides config)")
	configFile := flag.String("config", "", "optional YAML config file")
	countries := flag.String("countries", "", "comma-separated country list (overrides config)")
	focus := flag.String("focus", "", "focus country for the vaccination pie chart (overrides config)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Flags take precedence over config and environment
	if *input != "" {
		cfg.Analysis.InputFile = *input
	}
	if *countries != "" {
		cfg.Analysis.Countries = splitCountries(*countries)
	}
	if *focus != "" {
		cfg.Analysis.FocusCountry = *focus
	}
	if *outDir != "" {
		cfg.Paths.BaseDir = *outDir
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.Output != "console" && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = paths.GetLogPath(filepath.Base(cfg.Logging.FilePath))
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	inputPath := paths.ResolveInput(cfg.Analysis.InputFile)
	logger.Info("Starting COVID-19 data tracker",
		slog.String("input_file", inputPath),
		slog.String("reports_dir", paths.ReportsDir),
		slog.Any("countries", cfg.Analysis.Countries))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputCSV(inputPath); err != nil {
		infrastructure.WithError(logger, err).Error("Input validation failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(paths.ReportsDir); err != nil {
		infrastructure.WithError(logger, err).Error("Output validation failed")
		os.Exit(1)
	}

	runner := operations.NewRunner(logger,
		operations.DefaultStages(logger, cfg.Analysis, paths)...)

	state, err := runner.Run(context.Background(), inputPath)
	if err != nil {
		infrastructure.WithError(logger, err).Error("Pipeline failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(state.Insights.FormatText())
	for _, f := range state.ReportFiles {
		fmt.Printf("Report written: %s\n", f)
	}
	for _, f := range state.ChartFiles {
		fmt.Printf("Chart written: %s\n", f)
	}
}

func splitCountries(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package operations wires the tracker pipeline together as a sequence of
// stages executed under a single run ID.
package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"covidcli/internal/dataprocessing"
	pipeerrors "covidcli/internal/errors"
	"covidcli/internal/infrastructure"
	"covidcli/pkg/contracts/domain"
)

// State carries the pipeline data between stages. Each stage reads what the
// previous stages produced and appends its own outputs.
type State struct {
	RunID     string
	InputFile string

	Dataset  *domain.Dataset
	Snapshot *domain.Snapshot
	Insights *dataprocessing.Insights

	ChartFiles  []string
	ReportFiles []string
}

// Stage is one step of the pipeline
type Stage interface {
	Name() string
	Execute(ctx context.Context, state *State) error
}

// Runner executes stages sequentially, aborting on the first stage error.
type Runner struct {
	logger *slog.Logger
	stages []Stage
}

// NewRunner creates a pipeline runner over the given stages
func NewRunner(logger *slog.Logger, stages ...Stage) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger, stages: stages}
}

// Run executes the pipeline for the given input file and returns the final
// state. The context carries the run ID for stage logging.
func (r *Runner) Run(ctx context.Context, inputFile string) (*State, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	state := &State{
		RunID:     infrastructure.GetRunID(ctx),
		InputFile: inputFile,
	}

	logger := infrastructure.WithComponent(r.logger, "pipeline").
		With(slog.String("run_id", state.RunID))
	logger.Info("Pipeline started",
		slog.String("input_file", inputFile),
		slog.Int("stages", len(r.stages)))

	start := time.Now()
	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return state, fmt.Errorf("pipeline cancelled: %w", err)
		}

		stageStart := time.Now()
		logger.Info("Stage started", slog.String("stage", stage.Name()))

		if err := stage.Execute(ctx, state); err != nil {
			logger.Error("Stage failed",
				slog.String("stage", stage.Name()),
				slog.Duration("elapsed", time.Since(stageStart)),
				slog.String("error", err.Error()))
			return state, pipeerrors.NewStageError(stage.Name(), err)
		}

		logger.Info("Stage completed",
			slog.String("stage", stage.Name()),
			slog.Duration("elapsed", time.Since(stageStart)))
	}

	logger.Info("Pipeline completed",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("charts", len(state.ChartFiles)),
		slog.Int("reports", len(state.ReportFiles)))

	return state, nil
}

// Package app orchestrates the report pipeline: load every input
// file, analyze each sample, write one workbook.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"statreport/adapters/excelreport"
	"statreport/adapters/textdata"
	"statreport/domain/report"
	"statreport/domain/sample"
	"statreport/internal"
	"statreport/internal/analysis"
	"statreport/internal/errors"
)

// ReportService is the single entry point of the tool.
type ReportService struct {
	loader  *textdata.Loader
	builder *excelreport.Builder
	logger  *internal.Logger
	output  string
}

// Result describes one completed generation run.
type Result struct {
	OutputPath   string
	RunID        string
	Analyses     []report.SampleAnalysis
	LoadErrors   []error
	WarningCount int
}

// NewReportService wires the loader and builder behind one service.
func NewReportService(loader *textdata.Loader, builder *excelreport.Builder, logger *internal.Logger, outputPath string) *ReportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportService{
		loader:  loader,
		builder: builder,
		logger:  logger,
		output:  outputPath,
	}
}

// Generate loads the given files in order, analyzes every sample that
// loads, and writes the workbook. Files that fail to load are reported
// in the result but do not stop the run; only when every file fails is
// the whole run a LoadError, and then nothing is written. Per-sample
// computation failures degrade to markers inside the workbook.
func (s *ReportService) Generate(ctx context.Context, paths []string, alpha float64) (*Result, error) {
	if len(paths) == 0 {
		return nil, errors.InvalidInput("no input files given")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	s.logger.Info("[ReportService] run %s: %d input file(s)", runID, len(paths))

	sets, loadErrs := s.loader.Load(paths)
	if len(sets) == 0 {
		return nil, errors.WithCode(errors.CodeLoadError,
			fmt.Errorf("no input file could be loaded:\n%s", joinErrors(loadErrs)))
	}

	if len(sets) >= 2 {
		combined, err := sample.Combine(sets)
		if err != nil {
			s.logger.Warn("[ReportService] combined sample skipped: %v", err)
		} else {
			sets = append(sets, combined)
		}
	}

	result := &Result{
		OutputPath: s.output,
		RunID:      runID,
		LoadErrors: loadErrs,
	}

	for _, set := range sets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a := analysis.Analyze(set, alpha)
		for name, reason := range a.Markers {
			s.logger.Warn("[ReportService] %s: %s: %s", set.Label(), name, reason)
		}
		result.WarningCount += len(set.Warnings())
		result.Analyses = append(result.Analyses, a)
	}

	if err := s.builder.Build(result.Analyses, s.output, runID); err != nil {
		return nil, err
	}

	s.logger.Info("[ReportService] run %s complete: %s (%d sheet(s), %d line warning(s))",
		runID, s.output, len(result.Analyses), result.WarningCount)
	return result, nil
}

func joinErrors(errs []error) string {
	var lines []string
	for _, err := range errs {
		lines = append(lines, "  - "+err.Error())
	}
	return strings.Join(lines, "\n")
}

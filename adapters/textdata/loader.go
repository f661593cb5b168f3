// Package textdata loads whitespace-delimited sample files.
//
// Expected line format is "<index> <value>" with any amount of
// whitespace between the tokens. Blank lines and lines starting with
// "#" or "//" are skipped. A line holding a single numeric token is
// treated as a bare value. Decimal commas are tolerated.
package textdata

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"statreport/domain/sample"
	"statreport/internal"
	"statreport/internal/errors"
)

// Loader reads sample files into SampleSets.
type Loader struct {
	logger *internal.Logger
}

// NewLoader creates a loader with the given logger.
func NewLoader(logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{logger: logger}
}

// Load reads every path in order. The returned slice holds the samples
// that loaded; errs holds one coded LoadError per failed file, in the
// same order the failures occurred. Malformed lines inside a file are
// recorded as warnings on the sample, never as errors.
func (l *Loader) Load(paths []string) ([]sample.SampleSet, []error) {
	var sets []sample.SampleSet
	var errs []error
	for _, path := range paths {
		set, err := l.LoadFile(path)
		if err != nil {
			l.logger.Warn("[TextLoader] skipping %s: %v", path, err)
			errs = append(errs, err)
			continue
		}
		l.logger.Info("[TextLoader] loaded %s: %d values, %d lines skipped",
			path, set.Len(), len(set.Warnings()))
		sets = append(sets, set)
	}
	return sets, errs
}

// LoadFile reads a single file into a SampleSet.
func (l *Loader) LoadFile(path string) (sample.SampleSet, error) {
	if _, err := os.Stat(path); err != nil {
		return sample.SampleSet{}, errors.LoadError(path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return sample.SampleSet{}, errors.LoadError(path, err)
	}
	defer f.Close()

	var values []float64
	var warnings []sample.Warning

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		v, reason := parseLine(line)
		if reason != "" {
			warnings = append(warnings, sample.Warning{
				File:   path,
				Line:   lineNo,
				Text:   raw,
				Reason: reason,
			})
			continue
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return sample.SampleSet{}, errors.LoadError(path, err)
	}

	if len(values) < 2 {
		return sample.SampleSet{}, errors.LoadError(path,
			fmt.Errorf("fewer than 2 valid data rows (%d found)", len(values)))
	}

	label := stem(path)
	set, err := sample.New(label, path, values, warnings)
	if err != nil {
		return sample.SampleSet{}, errors.LoadError(path, err)
	}
	return set, nil
}

// parseLine extracts the value token from one non-comment line.
// Returns a non-empty reason when the line cannot be used.
func parseLine(line string) (float64, string) {
	fields := strings.Fields(line)
	var token string
	switch len(fields) {
	case 1:
		token = fields[0]
	case 2:
		token = fields[1]
	default:
		return 0, fmt.Sprintf("expected 1 or 2 columns, got %d", len(fields))
	}

	token = strings.ReplaceAll(token, ",", ".")
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Sprintf("value %q is not numeric", token)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Sprintf("value %q is not finite", token)
	}
	return v, ""
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

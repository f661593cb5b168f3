package sample

import (
	"fmt"
	"math"
)

// Warning records a single input line that was skipped during loading.
type Warning struct {
	File   string
	Line   int
	Text   string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d: %s (%q)", w.File, w.Line, w.Reason, w.Text)
}

// SampleSet is one named series of observations in file order.
// Construct through New so the invariants hold: at least two values,
// every value finite.
type SampleSet struct {
	label    string
	source   string
	values   []float64
	warnings []Warning
}

// New validates and builds a SampleSet. The value slice is copied.
func New(label, source string, values []float64, warnings []Warning) (SampleSet, error) {
	if label == "" {
		return SampleSet{}, fmt.Errorf("sample label must not be empty")
	}
	if len(values) < 2 {
		return SampleSet{}, fmt.Errorf("sample %q needs at least 2 values, got %d", label, len(values))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return SampleSet{}, fmt.Errorf("sample %q value %d is not finite", label, i)
		}
	}
	vs := make([]float64, len(values))
	copy(vs, values)
	ws := make([]Warning, len(warnings))
	copy(ws, warnings)
	return SampleSet{label: label, source: source, values: vs, warnings: ws}, nil
}

// Label returns the sample name (worksheet title before sanitization).
func (s SampleSet) Label() string { return s.label }

// Source returns the path the sample was loaded from; empty for
// synthetic samples such as the combined set.
func (s SampleSet) Source() string { return s.source }

// Len returns the observation count.
func (s SampleSet) Len() int { return len(s.values) }

// Values returns a copy of the observations in input order.
func (s SampleSet) Values() []float64 {
	vs := make([]float64, len(s.values))
	copy(vs, s.values)
	return vs
}

// Warnings returns the per-line parse warnings recorded while loading.
func (s SampleSet) Warnings() []Warning {
	ws := make([]Warning, len(s.warnings))
	copy(ws, s.warnings)
	return ws
}

// Combine concatenates the observations of every given sample into a
// single synthetic set labeled "Combined", preserving input order.
func Combine(sets []SampleSet) (SampleSet, error) {
	if len(sets) < 2 {
		return SampleSet{}, fmt.Errorf("combining needs at least 2 samples, got %d", len(sets))
	}
	var all []float64
	for _, s := range sets {
		all = append(all, s.values...)
	}
	return New("Combined", "", all, nil)
}

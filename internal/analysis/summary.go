// Package analysis computes descriptive statistics, normality tests
// and outlier criteria for a numeric sample. Every estimator uses the
// closed form that matches its worksheet formula so the computed value
// and the spreadsheet cell agree.
package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"statreport/domain/report"
	"statreport/internal/errors"
)

// Summarize computes the descriptive statistics of a sample.
// Deterministic: same input, same output, bit for bit.
func Summarize(values []float64) (report.SummaryStats, error) {
	n := len(values)
	if n < 2 {
		return report.SummaryStats{}, errors.NotComputable("summary", "need at least 2 values")
	}

	data := stats.Float64Data(values)
	mean, err := data.Mean()
	if err != nil {
		return report.SummaryStats{}, errors.Wrap(err, "mean failed")
	}
	sum, _ := data.Sum()
	min, _ := data.Min()
	max, _ := data.Max()
	variance, err := data.SampleVariance()
	if err != nil {
		return report.SummaryStats{}, errors.Wrap(err, "sample variance failed")
	}
	sd := math.Sqrt(variance)
	popSD, _ := data.StandardDeviationPopulation()

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s := report.SummaryStats{
		Count:     n,
		Sum:       sum,
		Mean:      mean,
		Variance:  variance,
		StdDev:    sd,
		PopStdDev: popSD,
		Min:       min,
		Max:       max,
		Range:     max - min,
		Median:    quantileR7(sorted, 0.50),
		Q1:        quantileR7(sorted, 0.25),
		Q3:        quantileR7(sorted, 0.75),
		StdError:  sd / math.Sqrt(float64(n)),
	}
	s.IQR = s.Q3 - s.Q1

	if n >= 3 {
		s.Skewness = skewnessG1(values, mean, popSD)
	}
	if n >= 4 {
		s.Kurtosis = kurtosisExcess(values, mean, sd)
	}
	if mean != 0 {
		s.CV = (sd / mean) * 100
	}

	allPositive := true
	for _, v := range values {
		if v <= 0 {
			allPositive = false
			break
		}
	}
	if allPositive {
		if gm, err := data.GeometricMean(); err == nil {
			s.GeoMean = gm
			if hm, err := data.HarmonicMean(); err == nil {
				s.HarmMean = hm
				s.HasGeoMeans = true
			}
		}
	}

	return s, nil
}

// MeanCI returns the two-sided Student-t confidence interval for the
// mean at 1-alpha confidence.
func MeanCI(values []float64, alpha float64) (report.ConfidenceInterval, error) {
	n := len(values)
	if n < 2 {
		return report.ConfidenceInterval{}, errors.NotComputable("mean CI", "need at least 2 values")
	}
	s, err := Summarize(values)
	if err != nil {
		return report.ConfidenceInterval{}, err
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(1 - alpha/2)
	half := t * s.StdError
	return report.ConfidenceInterval{
		Level: 1 - alpha,
		Lower: s.Mean - half,
		Upper: s.Mean + half,
	}, nil
}

// SigmaCI returns the chi-square confidence interval for the standard
// deviation at 1-alpha confidence.
func SigmaCI(values []float64, alpha float64) (report.ConfidenceInterval, error) {
	n := len(values)
	if n < 2 {
		return report.ConfidenceInterval{}, errors.NotComputable("sigma CI", "need at least 2 values")
	}
	data := stats.Float64Data(values)
	variance, err := data.SampleVariance()
	if err != nil {
		return report.ConfidenceInterval{}, errors.Wrap(err, "sample variance failed")
	}
	df := float64(n - 1)
	chi := distuv.ChiSquared{K: df}
	hi := chi.Quantile(1 - alpha/2)
	lo := chi.Quantile(alpha / 2)
	return report.ConfidenceInterval{
		Level: 1 - alpha,
		Lower: math.Sqrt(df * variance / hi),
		Upper: math.Sqrt(df * variance / lo),
	}, nil
}

// quantileR7 is the R-7 linear-interpolation quantile over a sorted
// slice. It matches Excel's QUARTILE.INC / PERCENTILE.INC, which the
// workbook formulas use, so the cell value and this value coincide.
func quantileR7(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// skewnessG1 is the adjusted Fisher-Pearson coefficient, the form
// Excel's SKEW computes: m3/popSD^3 scaled by sqrt(n(n-1))/(n-2).
func skewnessG1(values []float64, mean, popSD float64) float64 {
	n := float64(len(values))
	if popSD == 0 {
		return 0
	}
	var sum3 float64
	for _, v := range values {
		z := (v - mean) / popSD
		sum3 += z * z * z
	}
	g1 := sum3 / n
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// kurtosisExcess is the sample excess kurtosis, the form Excel's KURT
// computes, using the sample standard deviation.
func kurtosisExcess(values []float64, mean, sd float64) float64 {
	n := float64(len(values))
	if sd == 0 {
		return 0
	}
	var sum4 float64
	for _, v := range values {
		z := (v - mean) / sd
		sum4 += z * z * z * z
	}
	a := n * (n + 1) / ((n - 1) * (n - 2) * (n - 3))
	b := 3 * (n - 1) * (n - 1) / ((n - 2) * (n - 3))
	return a*sum4 - b
}

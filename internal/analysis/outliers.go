package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"statreport/domain/report"
	"statreport/internal/errors"
)

// DetectOutliers evaluates the IQR 1.5 fence, the 3-sigma rule and the
// Grubbs single-outlier test against the sample. Each observation gets
// three independent flags; nothing is removed. An observation is
// flagged only when it lies strictly outside its rule's bounds.
func DetectOutliers(values []float64, alpha float64) (report.OutlierReport, error) {
	n := len(values)
	s, err := Summarize(values)
	if err != nil {
		return report.OutlierReport{}, errors.Wrap(err, "outlier detection needs summary statistics")
	}

	r := report.OutlierReport{
		IQRLower:    s.Q1 - 1.5*s.IQR,
		IQRUpper:    s.Q3 + 1.5*s.IQR,
		SigmaLower:  s.Mean - 3*s.StdDev,
		SigmaUpper:  s.Mean + 3*s.StdDev,
		IQRFlags:    make([]bool, n),
		SigmaFlags:  make([]bool, n),
		GrubbsFlags: make([]bool, n),
	}

	for i, v := range values {
		if v < r.IQRLower || v > r.IQRUpper {
			r.IQRFlags[i] = true
			r.IQRCount++
		}
		if v < r.SigmaLower || v > r.SigmaUpper {
			r.SigmaFlags[i] = true
			r.SigmaCount++
		}
	}

	// Grubbs needs n >= 3 and spread; otherwise only the fence rules apply.
	if n >= 3 && s.StdDev > 0 {
		r.GrubbsOK = true
		r.GrubbsCrit = GrubbsCritical(n, alpha)

		var g float64
		var extreme int
		for i, v := range values {
			d := math.Abs(v-s.Mean) / s.StdDev
			if d > g {
				g = d
				extreme = i
			}
		}
		r.GrubbsG = g
		if g > r.GrubbsCrit {
			r.GrubbsFlags[extreme] = true
			r.GrubbsCount = 1
		}
	}

	return r, nil
}

// GrubbsCritical is the two-sided critical value of the Grubbs test at
// significance alpha, built from the Student-t quantile.
func GrubbsCritical(n int, alpha float64) float64 {
	nf := float64(n)
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nf - 2}.Quantile(1 - alpha/(2*nf))
	return (nf - 1) / math.Sqrt(nf) * math.Sqrt(t*t/(nf-2+t*t))
}

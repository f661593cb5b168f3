package analysis

import (
	"statreport/domain/report"
	"statreport/domain/sample"
)

// Analyze runs the full pipeline for one sample: summary, confidence
// intervals, the four normality tests and the three outlier rules.
// Individual failures degrade to markers on the result instead of
// aborting the sample.
func Analyze(set sample.SampleSet, alpha float64) report.SampleAnalysis {
	values := set.Values()
	a := report.SampleAnalysis{
		Sample:  set,
		Markers: make(map[string]string),
	}

	summary, err := Summarize(values)
	if err != nil {
		a.Markers["summary"] = err.Error()
		return a
	}
	a.Summary = summary

	meanCI, errMean := MeanCI(values, alpha)
	sigmaCI, errSigma := SigmaCI(values, alpha)
	if errMean == nil && errSigma == nil {
		a.MeanCI = meanCI
		a.SigmaCI = sigmaCI
		a.HasCIs = true
	} else if errMean != nil {
		a.Markers["mean CI"] = errMean.Error()
	} else {
		a.Markers["sigma CI"] = errSigma.Error()
	}

	a.Normality = RunNormalityTests(values, alpha)
	for _, r := range a.Normality {
		if !r.Computable {
			a.Markers[string(r.Kind)] = r.Reason
		}
	}

	outliers, err := DetectOutliers(values, alpha)
	if err != nil {
		a.Markers["outliers"] = err.Error()
	} else {
		a.Outliers = outliers
	}

	return a
}

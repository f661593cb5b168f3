package report

import "statreport/domain/sample"

// SummaryStats holds the descriptive statistics of one sample. All
// estimators use the sample (Bessel-corrected) forms unless named
// otherwise, so each field agrees with its worksheet formula.
type SummaryStats struct {
	Count       int
	Sum         float64
	Mean        float64
	Variance    float64 // sample variance, VAR.S
	StdDev      float64 // sample standard deviation, STDEV.S
	PopStdDev   float64 // population standard deviation, STDEV.P
	Min         float64
	Max         float64
	Range       float64
	Median      float64
	Q1          float64 // QUARTILE.INC(range,1)
	Q3          float64 // QUARTILE.INC(range,3)
	IQR         float64
	Skewness    float64 // adjusted Fisher-Pearson G1, Excel SKEW
	Kurtosis    float64 // sample excess kurtosis, Excel KURT
	StdError    float64
	CV          float64 // coefficient of variation, percent
	GeoMean     float64 // only when all values > 0
	HarmMean    float64 // only when all values > 0
	HasGeoMeans bool
}

// ConfidenceInterval is a two-sided interval at 1-alpha confidence.
type ConfidenceInterval struct {
	Level float64 // e.g. 0.95
	Lower float64
	Upper float64
}

// TestKind identifies one of the normality tests.
type TestKind string

const (
	TestShapiroWilk       TestKind = "shapiro-wilk"
	TestPearsonChiSquare  TestKind = "pearson-chi2"
	TestKolmogorovSmirnov TestKind = "kolmogorov-smirnov"
	TestRomanovsky        TestKind = "romanovsky"
)

// NormalityResult is the outcome of one normality test. Not every test
// produces both a p-value and a critical value; HasPValue and
// HasCritical say which comparison decided the verdict.
type NormalityResult struct {
	Kind        TestKind
	Statistic   float64
	PValue      float64
	HasPValue   bool
	Critical    float64
	HasCritical bool
	Normal      bool
	Unreliable  bool   // sample size outside the test's dependable region
	Computable  bool   // false when the sample cannot support the test at all
	Reason      string // set when !Computable or Unreliable
}

// OutlierReport carries the three outlier criteria evaluated over one
// sample. Observations are flagged, never removed.
type OutlierReport struct {
	IQRLower    float64
	IQRUpper    float64
	SigmaLower  float64
	SigmaUpper  float64
	GrubbsG     float64
	GrubbsCrit  float64
	GrubbsOK    bool // false when n too small for the Grubbs test
	IQRFlags    []bool
	SigmaFlags  []bool
	GrubbsFlags []bool
	IQRCount    int
	SigmaCount  int
	GrubbsCount int
}

// SampleAnalysis bundles everything computed for one sample. Markers
// lists the statistics that could not be computed, keyed by name.
type SampleAnalysis struct {
	Sample    sample.SampleSet
	Summary   SummaryStats
	MeanCI    ConfidenceInterval
	SigmaCI   ConfidenceInterval
	HasCIs    bool
	Normality []NormalityResult
	Outliers  OutlierReport
	Markers   map[string]string
}

// NormalityByKind returns the result for one test kind, if present.
func (a SampleAnalysis) NormalityByKind(kind TestKind) (NormalityResult, bool) {
	for _, r := range a.Normality {
		if r.Kind == kind {
			return r, true
		}
	}
	return NormalityResult{}, false
}

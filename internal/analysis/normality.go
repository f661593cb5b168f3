package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"statreport/domain/report"
)

// Reliability floors. Below the hard floor a test is not computable;
// inside the soft region it runs but is marked unreliable.
const (
	shapiroHardFloor    = 3
	shapiroSoftFloor    = 8
	chiSquareSoftFloor  = 30
	ksHardFloor         = 3
	ksSoftFloor         = 20
	romanovskyHardFloor = 3
	romanovskySoftCeil  = 50
	romanovskyCritical  = 3.0
)

var stdNormal = distuv.UnitNormal

// RunNormalityTests evaluates all four tests against the sample. Every
// test always yields a result; tests the sample cannot support come
// back with Computable=false and a reason instead of being dropped.
// A p-value test rejects normality only when p is strictly below
// alpha; a critical-value test only when the statistic strictly
// exceeds its critical value.
func RunNormalityTests(values []float64, alpha float64) []report.NormalityResult {
	return []report.NormalityResult{
		ShapiroWilk(values, alpha),
		PearsonChiSquare(values, alpha),
		KolmogorovSmirnov(values),
		Romanovsky(values),
	}
}

// ShapiroWilk computes W and its p-value using Royston's AS R94
// approximation, valid for 3 <= n <= 5000.
func ShapiroWilk(values []float64, alpha float64) report.NormalityResult {
	res := report.NormalityResult{Kind: report.TestShapiroWilk}
	n := len(values)
	if n < shapiroHardFloor {
		res.Reason = "need at least 3 values"
		return res
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if sorted[0] == sorted[n-1] {
		res.Reason = "all values identical"
		return res
	}

	w := swStatistic(sorted)
	p := swPValue(w, n)

	res.Statistic = w
	res.PValue = p
	res.HasPValue = true
	res.Normal = !(p < alpha)
	res.Computable = true
	if n < shapiroSoftFloor {
		res.Unreliable = true
		res.Reason = "sample smaller than 8"
	}
	return res
}

// swStatistic computes the W statistic over a sorted sample.
func swStatistic(sorted []float64) float64 {
	n := len(sorted)
	nf := float64(n)

	// Blom scores of the order statistics.
	m := make([]float64, n)
	var mSq float64
	for i := 0; i < n; i++ {
		m[i] = stdNormal.Quantile((float64(i+1) - 0.375) / (nf + 0.25))
		mSq += m[i] * m[i]
	}

	a := make([]float64, n)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		a[2] = -a[0]
	} else {
		u := 1 / math.Sqrt(nf)
		rm := math.Sqrt(mSq)
		an := -2.706056*pow5(u) + 4.434685*pow4(u) - 2.071190*u*u*u -
			0.147981*u*u + 0.221157*u + m[n-1]/rm
		if n <= 5 {
			phi := (mSq - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
			rp := math.Sqrt(phi)
			for i := 1; i < n-1; i++ {
				a[i] = m[i] / rp
			}
			a[n-1] = an
			a[0] = -an
		} else {
			an1 := -3.582633*pow5(u) + 5.682633*pow4(u) - 1.752461*u*u*u -
				0.293762*u*u + 0.042981*u + m[n-2]/rm
			phi := (mSq - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) /
				(1 - 2*an*an - 2*an1*an1)
			rp := math.Sqrt(phi)
			for i := 2; i < n-2; i++ {
				a[i] = m[i] / rp
			}
			a[n-1] = an
			a[n-2] = an1
			a[0] = -an
			a[1] = -an1
		}
	}

	var mean float64
	for _, v := range sorted {
		mean += v
	}
	mean /= nf

	var num, den float64
	for i, v := range sorted {
		num += a[i] * v
		den += (v - mean) * (v - mean)
	}
	w := num * num / den
	if w > 1 {
		w = 1
	}
	return w
}

// swPValue maps W to an upper-tail p-value per Royston's normalizing
// transformations.
func swPValue(w float64, n int) float64 {
	nf := float64(n)
	switch {
	case n == 3:
		// Exact for n=3.
		p := (6 / math.Pi) * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		if p < 0 {
			return 0
		}
		return p
	case n <= 11:
		g := -2.273 + 0.459*nf
		mu := 0.5440 - 0.39978*nf + 0.025054*nf*nf - 0.0006714*nf*nf*nf
		sigma := math.Exp(1.3822 - 0.77857*nf + 0.062767*nf*nf - 0.0020322*nf*nf*nf)
		z := (-math.Log(g-math.Log(1-w)) - mu) / sigma
		return stdNormal.Survival(z)
	default:
		ln := math.Log(nf)
		mu := -1.5861 - 0.31082*ln - 0.083751*ln*ln + 0.0038915*ln*ln*ln
		sigma := math.Exp(-0.4803 - 0.082676*ln + 0.0030302*ln*ln)
		z := (math.Log(1-w) - mu) / sigma
		return stdNormal.Survival(z)
	}
}

// PearsonChiSquare bins the sample with Sturges' rule, pools adjacent
// bins until every expected count reaches 5, and tests the observed
// counts against N(mean, s) with k-3 degrees of freedom.
func PearsonChiSquare(values []float64, alpha float64) report.NormalityResult {
	res := report.NormalityResult{Kind: report.TestPearsonChiSquare}
	n := len(values)

	bins, err := NormalBins(values)
	if err != nil {
		res.Reason = "sample has no spread"
		return res
	}

	stat, df := chiSquareFromBins(bins)
	if df < 1 {
		res.Reason = "too few bins after pooling"
		return res
	}

	p := distuv.ChiSquared{K: float64(df)}.Survival(stat)

	res.Statistic = stat
	res.PValue = p
	res.HasPValue = true
	res.Normal = !(p < alpha)
	res.Computable = true
	if n < chiSquareSoftFloor {
		res.Unreliable = true
		res.Reason = "sample smaller than 30"
	}
	return res
}

// KolmogorovSmirnov runs the Lilliefors form of the KS test: D against
// N(mean, s) with parameters estimated from the sample, compared to
// the tabulated critical value at the 5% level.
func KolmogorovSmirnov(values []float64) report.NormalityResult {
	res := report.NormalityResult{Kind: report.TestKolmogorovSmirnov}
	n := len(values)
	if n < ksHardFloor {
		res.Reason = "need at least 3 values"
		return res
	}

	s, err := Summarize(values)
	if err != nil || s.StdDev == 0 {
		res.Reason = "sample has no spread"
		return res
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	norm := distuv.Normal{Mu: s.Mean, Sigma: s.StdDev}
	nf := float64(n)
	var d float64
	for i, v := range sorted {
		cdf := norm.CDF(v)
		dPlus := float64(i+1)/nf - cdf
		dMinus := cdf - float64(i)/nf
		if dPlus > d {
			d = dPlus
		}
		if dMinus > d {
			d = dMinus
		}
	}

	res.Statistic = d
	res.Critical = ksCritical(n)
	res.HasCritical = true
	res.Normal = !(d > res.Critical)
	res.Computable = true
	if n < ksSoftFloor {
		res.Unreliable = true
		res.Reason = "sample smaller than 20"
	}
	return res
}

// ksCritical is the 5% Lilliefors critical value.
func ksCritical(n int) float64 {
	switch {
	case n <= 20:
		return 0.294
	case n <= 30:
		return 0.242
	case n <= 40:
		return 0.210
	default:
		return 1.36 / math.Sqrt(float64(n))
	}
}

// Romanovsky compares |skewness| to its standard error sqrt(6/n). The
// conventional critical value is 3.
func Romanovsky(values []float64) report.NormalityResult {
	res := report.NormalityResult{Kind: report.TestRomanovsky}
	n := len(values)
	if n < romanovskyHardFloor {
		res.Reason = "need at least 3 values"
		return res
	}

	s, err := Summarize(values)
	if err != nil || s.StdDev == 0 {
		res.Reason = "sample has no spread"
		return res
	}

	stat := math.Abs(s.Skewness) / math.Sqrt(6/float64(n))

	res.Statistic = stat
	res.Critical = romanovskyCritical
	res.HasCritical = true
	res.Normal = !(stat > romanovskyCritical)
	res.Computable = true
	if n > romanovskySoftCeil {
		res.Unreliable = true
		res.Reason = "sample larger than 50"
	}
	return res
}

func pow4(x float64) float64 { return x * x * x * x }
func pow5(x float64) float64 { return x * x * x * x * x }

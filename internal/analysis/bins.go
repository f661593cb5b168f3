package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"statreport/internal/errors"
)

// Bin is one pooled histogram bin of the chi-square goodness-of-fit
// table. First and Last mark the tail bins, whose expected counts
// absorb the open ends of the normal distribution.
type Bin struct {
	Lo       float64
	Hi       float64
	Observed float64
	Expected float64
	First    bool
	Last     bool
}

// NormalBins builds the chi-square bin table for a sample: Sturges'
// rule for the initial bin count, expected counts under N(mean, s),
// then left-to-right pooling until every expected count reaches 5.
func NormalBins(values []float64) ([]Bin, error) {
	s, err := Summarize(values)
	if err != nil {
		return nil, err
	}
	if s.StdDev == 0 {
		return nil, errors.NotComputable("chi-square bins", "sample has no spread")
	}

	k := sturgesBins(len(values))
	width := s.Range / float64(k)
	norm := distuv.Normal{Mu: s.Mean, Sigma: s.StdDev}
	nf := float64(len(values))

	bins := make([]Bin, k)
	for i := 0; i < k; i++ {
		lo := s.Min + float64(i)*width
		bins[i] = Bin{Lo: lo, Hi: lo + width, First: i == 0, Last: i == k-1}
	}
	for _, v := range values {
		idx := int((v - s.Min) / width)
		if idx >= k {
			idx = k - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Observed++
	}
	for i := range bins {
		pLo := norm.CDF(bins[i].Lo)
		pHi := norm.CDF(bins[i].Hi)
		if bins[i].First {
			pLo = 0
		}
		if bins[i].Last {
			pHi = 1
		}
		bins[i].Expected = nf * (pHi - pLo)
	}

	return poolBins(bins), nil
}

// sturgesBins is ceil(1 + 3.322*log10(n)) clamped to [5, 20].
func sturgesBins(n int) int {
	k := int(math.Ceil(1 + 3.322*math.Log10(float64(n))))
	if k < 5 {
		k = 5
	}
	if k > 20 {
		k = 20
	}
	return k
}

// poolBins merges adjacent bins left to right until every expected
// count is at least 5. A trailing remainder folds into the last kept
// bin.
func poolBins(bins []Bin) []Bin {
	var pooled []Bin
	var acc Bin
	open := false
	for _, b := range bins {
		if !open {
			acc = b
			open = true
		} else {
			acc.Hi = b.Hi
			acc.Last = b.Last
			acc.Observed += b.Observed
			acc.Expected += b.Expected
		}
		if acc.Expected >= 5 {
			pooled = append(pooled, acc)
			open = false
		}
	}
	if open && len(pooled) > 0 {
		last := &pooled[len(pooled)-1]
		last.Hi = acc.Hi
		last.Last = acc.Last
		last.Observed += acc.Observed
		last.Expected += acc.Expected
	}
	return pooled
}

// chiSquareFromBins computes the statistic and degrees of freedom.
func chiSquareFromBins(bins []Bin) (stat float64, df int) {
	for _, b := range bins {
		d := b.Observed - b.Expected
		stat += d * d / b.Expected
	}
	return stat, len(bins) - 3
}

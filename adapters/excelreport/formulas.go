package excelreport

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"statreport/domain/report"
	"statreport/internal/analysis"
)

// sheetWriter fills one sample worksheet. Every derived cell is a live
// formula over the raw-data range; the only literals besides the raw
// values are the Shapiro-Wilk results, which have no spreadsheet
// closed form, and the bin edges of the chi-square table.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	l      layout
	styles *styleSet
	alpha  float64
}

func (w *sheetWriter) alphaLit() string {
	return strconv.FormatFloat(w.alpha, 'g', -1, 64)
}

func (w *sheetWriter) setFormula(col string, row int, formula string, style int) error {
	ref := cell(col, row)
	if err := w.f.SetCellFormula(w.sheet, ref, formula); err != nil {
		return err
	}
	if style != 0 {
		return w.f.SetCellStyle(w.sheet, ref, ref, style)
	}
	return nil
}

func (w *sheetWriter) setLabel(row int, text string) error {
	ref := cell(colLabel, row)
	if err := w.f.SetCellValue(w.sheet, ref, text); err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, ref, ref, w.styles.label)
}

func (w *sheetWriter) setHeader(col string, row int, text string) error {
	ref := cell(col, row)
	if err := w.f.SetCellValue(w.sheet, ref, text); err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, ref, ref, w.styles.header)
}

// writeTitle merges A1:I1 for the sheet banner.
func (w *sheetWriter) writeTitle(label string, n int) error {
	if err := w.f.MergeCell(w.sheet, "A1", "I1"); err != nil {
		return err
	}
	title := fmt.Sprintf("Statistical Report: %s (n = %d)", label, n)
	if err := w.f.SetCellValue(w.sheet, "A1", title); err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, "A1", "I1", w.styles.title)
}

// writeDataBlock fills the index/value columns and the per-observation
// z-score and flag formulas.
func (w *sheetWriter) writeDataBlock(values []float64) error {
	headers := []struct {
		col, text string
	}{
		{colIndex, "#"},
		{colValue, "Value"},
		{colZScore, "Z-Score"},
		{colIQRF, "IQR Flag"},
		{colSigmaF, "3-Sigma Flag"},
		{colGrubbF, "Grubbs Flag"},
	}
	for _, h := range headers {
		if err := w.setHeader(h.col, 2, h.text); err != nil {
			return err
		}
	}

	for i, v := range values {
		row := dataStartRow + i
		if err := w.f.SetCellValue(w.sheet, cell(colIndex, row), i+1); err != nil {
			return err
		}
		if err := w.f.SetCellValue(w.sheet, cell(colValue, row), v); err != nil {
			return err
		}

		z := fmt.Sprintf("(%s-%s)/%s", cell(colValue, row), stat(rowMean), stat(rowStdDev))
		if err := w.setFormula(colZScore, row, z, w.styles.number); err != nil {
			return err
		}

		iqr := fmt.Sprintf("IF(OR(%s<%s,%s>%s),1,0)",
			cell(colValue, row), stat(rowIQRLo), cell(colValue, row), stat(rowIQRHi))
		if err := w.setFormula(colIQRF, row, iqr, 0); err != nil {
			return err
		}

		sigma := fmt.Sprintf("IF(OR(%s<%s,%s>%s),1,0)",
			cell(colValue, row), stat(rowSigmaLo), cell(colValue, row), stat(rowSigmaHi))
		if err := w.setFormula(colSigmaF, row, sigma, 0); err != nil {
			return err
		}

		if w.l.n >= 3 {
			grubbs := fmt.Sprintf("IF(ABS(%s-%s)/%s>%s,1,0)",
				cell(colValue, row), stat(rowMean), stat(rowStdDev), stat(rowGrubbsCrit))
			if err := w.setFormula(colGrubbF, row, grubbs, 0); err != nil {
				return err
			}
		} else {
			if err := w.f.SetCellValue(w.sheet, cell(colGrubbF, row), 0); err != nil {
				return err
			}
		}
	}

	// Highlight flag cells that evaluate to 1.
	flagRange := fmt.Sprintf("%s%d:%s%d", colIQRF, dataStartRow, colGrubbF, w.l.lastDataRow())
	return w.f.SetConditionalFormat(w.sheet, flagRange, []excelize.ConditionalFormatOptions{
		{
			Type:     "cell",
			Criteria: "equal to",
			Value:    "1",
			Format:   &w.styles.condFlag,
		},
	})
}

// writeSummaryBlock fills the H/I statistic column: descriptive
// statistics, confidence intervals, outlier criteria and normality
// verdicts. Shapiro-Wilk values come in as computed literals.
func (w *sheetWriter) writeSummaryBlock(a report.SampleAnalysis) error {
	r := w.l.dataRange()
	alpha := w.alphaLit()

	if err := w.setLabel(rowSummaryHead, "Summary"); err != nil {
		return err
	}

	type entry struct {
		row     int
		label   string
		formula string
	}
	entries := []entry{
		{rowCount, "Count", fmt.Sprintf("COUNT(%s)", r)},
		{rowMean, "Mean", fmt.Sprintf("AVERAGE(%s)", r)},
		{rowStdDev, "Std Dev (sample)", fmt.Sprintf("STDEV.S(%s)", r)},
		{rowVariance, "Variance (sample)", fmt.Sprintf("VAR.S(%s)", r)},
		{rowMin, "Minimum", fmt.Sprintf("MIN(%s)", r)},
		{rowMax, "Maximum", fmt.Sprintf("MAX(%s)", r)},
		{rowRange, "Range", fmt.Sprintf("%s-%s", stat(rowMax), stat(rowMin))},
		{rowMedian, "Median", fmt.Sprintf("MEDIAN(%s)", r)},
		{rowQ1, "Q1", fmt.Sprintf("QUARTILE.INC(%s,1)", r)},
		{rowQ3, "Q3", fmt.Sprintf("QUARTILE.INC(%s,3)", r)},
		{rowIQR, "IQR", fmt.Sprintf("%s-%s", stat(rowQ3), stat(rowQ1))},
		{rowStdError, "Std Error", fmt.Sprintf("%s/SQRT(%s)", stat(rowStdDev), stat(rowCount))},
		{rowCV, "CV %", fmt.Sprintf("IF(%s=0,\"\",%s/%s*100)",
			stat(rowMean), stat(rowStdDev), stat(rowMean))},
		{rowMeanCILo, "Mean CI lower", fmt.Sprintf("%s-T.INV.2T(%s,%s-1)*%s",
			stat(rowMean), alpha, stat(rowCount), stat(rowStdError))},
		{rowMeanCIHi, "Mean CI upper", fmt.Sprintf("%s+T.INV.2T(%s,%s-1)*%s",
			stat(rowMean), alpha, stat(rowCount), stat(rowStdError))},
		{rowSigmaCILo, "Sigma CI lower", fmt.Sprintf("SQRT((%s-1)*%s/CHISQ.INV.RT(%s/2,%s-1))",
			stat(rowCount), stat(rowVariance), alpha, stat(rowCount))},
		{rowSigmaCIHi, "Sigma CI upper", fmt.Sprintf("SQRT((%s-1)*%s/CHISQ.INV.RT(1-%s/2,%s-1))",
			stat(rowCount), stat(rowVariance), alpha, stat(rowCount))},
	}

	// SKEW needs n >= 3 and KURT n >= 4 or Excel itself errors.
	if w.l.n >= 3 {
		entries = append(entries, entry{rowSkewness, "Skewness", fmt.Sprintf("SKEW(%s)", r)})
	}
	if w.l.n >= 4 {
		entries = append(entries, entry{rowKurtosis, "Kurtosis (excess)", fmt.Sprintf("KURT(%s)", r)})
	}

	if err := w.setLabel(rowOutlierHead, "Outlier Criteria"); err != nil {
		return err
	}
	entries = append(entries,
		entry{rowIQRLo, "IQR lower fence", fmt.Sprintf("%s-1.5*%s", stat(rowQ1), stat(rowIQR))},
		entry{rowIQRHi, "IQR upper fence", fmt.Sprintf("%s+1.5*%s", stat(rowQ3), stat(rowIQR))},
		entry{rowIQRCount, "IQR outliers", fmt.Sprintf("COUNTIF(%s,\"<\"&%s)+COUNTIF(%s,\">\"&%s)",
			r, stat(rowIQRLo), r, stat(rowIQRHi))},
		entry{rowSigmaLo, "3-sigma lower", fmt.Sprintf("%s-3*%s", stat(rowMean), stat(rowStdDev))},
		entry{rowSigmaHi, "3-sigma upper", fmt.Sprintf("%s+3*%s", stat(rowMean), stat(rowStdDev))},
		entry{rowSigmaCount, "3-sigma outliers", fmt.Sprintf("COUNTIF(%s,\"<\"&%s)+COUNTIF(%s,\">\"&%s)",
			r, stat(rowSigmaLo), r, stat(rowSigmaHi))},
	)
	if w.l.n >= 3 {
		entries = append(entries,
			entry{rowGrubbsG, "Grubbs G", fmt.Sprintf("MAX(ABS(%s-%s),ABS(%s-%s))/%s",
				stat(rowMin), stat(rowMean), stat(rowMax), stat(rowMean), stat(rowStdDev))},
			entry{rowGrubbsCrit, "Grubbs critical", grubbsCriticalFormula(alpha)},
		)
	}

	if err := w.setLabel(rowNormalHead, "Normality Tests"); err != nil {
		return err
	}
	if w.l.n >= 3 {
		entries = append(entries, entry{rowRomanStat, "Romanovsky stat",
			fmt.Sprintf("ABS(%s)/SQRT(6/%s)", stat(rowSkewness), stat(rowCount))})
	}
	entries = append(entries,
		entry{rowKSStat, "K-S statistic D", fmt.Sprintf("MAX(%s,%s)",
			w.l.colRange(colDPlus), w.l.colRange(colDMinus))},
		entry{rowKSCrit, "K-S critical", fmt.Sprintf(
			"IF(%[1]s<=20,0.294,IF(%[1]s<=30,0.242,IF(%[1]s<=40,0.21,1.36/SQRT(%[1]s))))",
			stat(rowCount))},
	)
	if w.l.bins >= 4 {
		entries = append(entries,
			entry{rowChiStat, "Chi-square stat", fmt.Sprintf("SUM(%s)", w.l.binRange(colChiTerm))},
			entry{rowChiDF, "Chi-square df", fmt.Sprintf("COUNT(%s)-3", w.l.binRange(colChiTerm))},
			entry{rowChiP, "Chi-square p", fmt.Sprintf("CHISQ.DIST.RT(%s,%s)",
				stat(rowChiStat), stat(rowChiDF))},
		)
	}

	for _, e := range entries {
		if err := w.setLabel(e.row, e.label); err != nil {
			return err
		}
		if err := w.setFormula(colStat, e.row, e.formula, w.styles.number); err != nil {
			return err
		}
	}

	// Verdict cells and the fixed Romanovsky critical value.
	if err := w.setLabel(rowRomanCrit, "Romanovsky critical"); err != nil {
		return err
	}
	if err := w.f.SetCellValue(w.sheet, cell(colStat, rowRomanCrit), 3.0); err != nil {
		return err
	}

	verdicts := []entry{
		{rowKSSay, "K-S verdict", fmt.Sprintf("IF(%s>%s,\"not normal\",\"normal\")",
			stat(rowKSStat), stat(rowKSCrit))},
	}
	if w.l.n >= 3 {
		verdicts = append(verdicts,
			entry{rowGrubbsSay, "Grubbs verdict", fmt.Sprintf("IF(%s>%s,\"outlier suspected\",\"no outlier\")",
				stat(rowGrubbsG), stat(rowGrubbsCrit))},
			entry{rowRomanSay, "Romanovsky verdict", fmt.Sprintf("IF(%s>%s,\"not normal\",\"normal\")",
				stat(rowRomanStat), stat(rowRomanCrit))},
		)
	}
	if w.l.bins >= 4 {
		verdicts = append(verdicts, entry{rowChiSay, "Chi-square verdict",
			fmt.Sprintf("IF(%s<%s,\"not normal\",\"normal\")", stat(rowChiP), alpha)})
	} else {
		if err := w.setLabel(rowChiSay, "Chi-square verdict"); err != nil {
			return err
		}
		if err := w.f.SetCellValue(w.sheet, cell(colStat, rowChiSay), "not computable"); err != nil {
			return err
		}
	}
	for _, e := range verdicts {
		if err := w.setLabel(e.row, e.label); err != nil {
			return err
		}
		if err := w.setFormula(colStat, e.row, e.formula, w.styles.verdict); err != nil {
			return err
		}
	}

	return w.writeShapiroWilk(a)
}

// writeShapiroWilk writes the one test that cannot be a live formula.
func (w *sheetWriter) writeShapiroWilk(a report.SampleAnalysis) error {
	if err := w.setLabel(rowSWStat, "Shapiro-Wilk W"); err != nil {
		return err
	}
	if err := w.setLabel(rowSWP, "Shapiro-Wilk p"); err != nil {
		return err
	}
	if err := w.setLabel(rowSWSay, "Shapiro-Wilk verdict"); err != nil {
		return err
	}

	sw, ok := a.NormalityByKind(report.TestShapiroWilk)
	if !ok || !sw.Computable {
		reason := "not computable"
		if ok && sw.Reason != "" {
			reason = sw.Reason
		}
		return w.f.SetCellValue(w.sheet, cell(colStat, rowSWSay), reason)
	}

	if err := w.f.SetCellValue(w.sheet, cell(colStat, rowSWStat), sw.Statistic); err != nil {
		return err
	}
	if err := w.f.SetCellValue(w.sheet, cell(colStat, rowSWP), sw.PValue); err != nil {
		return err
	}
	verdict := "normal"
	if !sw.Normal {
		verdict = "not normal"
	}
	if sw.Unreliable {
		verdict += " (unreliable: " + sw.Reason + ")"
	}
	for _, row := range []int{rowSWStat, rowSWP} {
		ref := cell(colStat, row)
		if err := w.f.SetCellStyle(w.sheet, ref, ref, w.styles.number); err != nil {
			return err
		}
	}
	return w.f.SetCellValue(w.sheet, cell(colStat, rowSWSay), verdict)
}

// writeQQHelpers fills the sorted-value and theoretical-quantile
// columns backing the Q-Q chart.
func (w *sheetWriter) writeQQHelpers() error {
	if err := w.setHeader(colSorted, 2, "Sorted"); err != nil {
		return err
	}
	if err := w.setHeader(colQuantile, 2, "Normal Quantile"); err != nil {
		return err
	}
	for i := 0; i < w.l.n; i++ {
		row := dataStartRow + i
		small := fmt.Sprintf("SMALL(%s,%s)", w.l.dataRangeAbs(), cell(colIndex, row))
		if err := w.setFormula(colSorted, row, small, w.styles.number); err != nil {
			return err
		}
		quant := fmt.Sprintf("NORM.INV((%s-0.375)/(%s+0.25),%s,%s)",
			cell(colIndex, row), stat(rowCount), stat(rowMean), stat(rowStdDev))
		if err := w.setFormula(colQuantile, row, quant, w.styles.number); err != nil {
			return err
		}
	}
	return nil
}

// writeKSHelpers fills the theoretical CDF and the D+/D- columns the
// K-S statistic cell maximizes over.
func (w *sheetWriter) writeKSHelpers() error {
	headers := []struct {
		col, text string
	}{
		{colCDF, "F(x) Normal"},
		{colDPlus, "D+"},
		{colDMinus, "D-"},
	}
	for _, h := range headers {
		if err := w.setHeader(h.col, 2, h.text); err != nil {
			return err
		}
	}
	for i := 0; i < w.l.n; i++ {
		row := dataStartRow + i
		cdf := fmt.Sprintf("NORM.DIST(%s,%s,%s,TRUE)",
			cell(colSorted, row), stat(rowMean), stat(rowStdDev))
		if err := w.setFormula(colCDF, row, cdf, w.styles.number); err != nil {
			return err
		}
		dPlus := fmt.Sprintf("%s/%s-%s", cell(colIndex, row), stat(rowCount), cell(colCDF, row))
		if err := w.setFormula(colDPlus, row, dPlus, w.styles.number); err != nil {
			return err
		}
		dMinus := fmt.Sprintf("%s-(%s-1)/%s", cell(colCDF, row), cell(colIndex, row), stat(rowCount))
		if err := w.setFormula(colDMinus, row, dMinus, w.styles.number); err != nil {
			return err
		}
	}
	return nil
}

// writeBinTable fills the chi-square bin table. Bin edges are literal
// values; observed, expected and the chi-square terms are formulas so
// editing the raw data recomputes the test.
func (w *sheetWriter) writeBinTable(bins []analysis.Bin) error {
	headers := []struct {
		col, text string
	}{
		{colBinLo, "Bin From"},
		{colBinHi, "Bin To"},
		{colObserved, "Observed"},
		{colExpected, "Expected"},
		{colChiTerm, "Chi-Sq Term"},
	}
	for _, h := range headers {
		if err := w.setHeader(h.col, 2, h.text); err != nil {
			return err
		}
	}

	r := w.l.dataRangeAbs()
	for i, b := range bins {
		row := dataStartRow + i
		if err := w.f.SetCellValue(w.sheet, cell(colBinLo, row), b.Lo); err != nil {
			return err
		}
		if err := w.f.SetCellValue(w.sheet, cell(colBinHi, row), b.Hi); err != nil {
			return err
		}

		cmp := "\"<\""
		if b.Last {
			cmp = "\"<=\""
		}
		observed := fmt.Sprintf("COUNTIFS(%s,\">=\"&%s,%s,%s&%s)",
			r, cell(colBinLo, row), r, cmp, cell(colBinHi, row))
		if err := w.setFormula(colObserved, row, observed, w.styles.integer); err != nil {
			return err
		}

		var expected string
		switch {
		case b.First && b.Last:
			expected = stat(rowCount)
		case b.First:
			expected = fmt.Sprintf("%s*NORM.DIST(%s,%s,%s,TRUE)",
				stat(rowCount), cell(colBinHi, row), stat(rowMean), stat(rowStdDev))
		case b.Last:
			expected = fmt.Sprintf("%s*(1-NORM.DIST(%s,%s,%s,TRUE))",
				stat(rowCount), cell(colBinLo, row), stat(rowMean), stat(rowStdDev))
		default:
			expected = fmt.Sprintf("%s*(NORM.DIST(%s,%s,%s,TRUE)-NORM.DIST(%s,%s,%s,TRUE))",
				stat(rowCount), cell(colBinHi, row), stat(rowMean), stat(rowStdDev),
				cell(colBinLo, row), stat(rowMean), stat(rowStdDev))
		}
		if err := w.setFormula(colExpected, row, expected, w.styles.number); err != nil {
			return err
		}

		term := fmt.Sprintf("(%s-%s)^2/%s",
			cell(colObserved, row), cell(colExpected, row), cell(colExpected, row))
		if err := w.setFormula(colChiTerm, row, term, w.styles.number); err != nil {
			return err
		}
	}
	return nil
}

// writeBoxHelpers fills the stacked-segment cells behind the box plot
// and the whisker values shown beside it.
func (w *sheetWriter) writeBoxHelpers() error {
	if err := w.setHeader(colBoxLabel, 2, "Box Plot"); err != nil {
		return err
	}
	segments := []struct {
		row     int
		label   string
		formula string
	}{
		{3, "Q1 (base)", stat(rowQ1)},
		{4, "Median - Q1", fmt.Sprintf("%s-%s", stat(rowMedian), stat(rowQ1))},
		{5, "Q3 - Median", fmt.Sprintf("%s-%s", stat(rowQ3), stat(rowMedian))},
		{6, "Whisker low", stat(rowMin)},
		{7, "Whisker high", stat(rowMax)},
	}
	for _, s := range segments {
		if err := w.f.SetCellValue(w.sheet, cell(colBoxLabel, s.row), s.label); err != nil {
			return err
		}
		if err := w.setFormula(colBoxValue, s.row, s.formula, w.styles.number); err != nil {
			return err
		}
	}
	return nil
}

// grubbsCriticalFormula expresses the two-sided Grubbs critical value
// through T.INV so it tracks the live COUNT cell.
func grubbsCriticalFormula(alpha string) string {
	t := fmt.Sprintf("T.INV(1-%s/(2*%s),%s-2)", alpha, stat(rowCount), stat(rowCount))
	return fmt.Sprintf("(%[1]s-1)/SQRT(%[1]s)*SQRT(%[2]s^2/(%[1]s-2+%[2]s^2))",
		stat(rowCount), t)
}

package excelreport

import (
	"github.com/xuri/excelize/v2"
)

// Chart anchor cells. Charts sit to the right of the helper columns so
// they never collide with data, whatever the row count.
const (
	anchorHistogram = "AA2"
	anchorQQ        = "AA20"
	anchorBox       = "AA38"
	anchorDensity   = "AA56"
)

// addCharts places the four charts of one sample sheet. Every series
// is bound to in-sheet cell ranges, so the charts follow edits to the
// raw data the same way the formula cells do.
func (w *sheetWriter) addCharts(label string) error {
	// No bin table, no bin-backed charts.
	if w.l.bins > 0 {
		if err := w.addHistogram(label); err != nil {
			return err
		}
	}
	if err := w.addQQPlot(label); err != nil {
		return err
	}
	if err := w.addBoxPlot(label); err != nil {
		return err
	}
	if w.l.bins > 0 {
		return w.addDensityOverlay(label)
	}
	return nil
}

// addHistogram draws observed bin counts as columns with the expected
// normal counts overlaid as a line.
func (w *sheetWriter) addHistogram(label string) error {
	cats := sheetRange(w.sheet, colBinLo, dataStartRow, w.l.lastBinRow())
	return w.f.AddChart(w.sheet, anchorHistogram, &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       "Observed",
				Categories: cats,
				Values:     sheetRange(w.sheet, colObserved, dataStartRow, w.l.lastBinRow()),
			},
		},
		Title: []excelize.RichTextRun{{Text: "Histogram: " + label}},
	}, &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       "Expected (normal)",
				Categories: cats,
				Values:     sheetRange(w.sheet, colExpected, dataStartRow, w.l.lastBinRow()),
			},
		},
	})
}

// addQQPlot draws sorted observations against theoretical normal
// quantiles. A normal sample tracks the diagonal.
func (w *sheetWriter) addQQPlot(label string) error {
	return w.f.AddChart(w.sheet, anchorQQ, &excelize.Chart{
		Type: excelize.Scatter,
		Series: []excelize.ChartSeries{
			{
				Name:       "Q-Q",
				Categories: sheetRange(w.sheet, colQuantile, dataStartRow, w.l.lastDataRow()),
				Values:     sheetRange(w.sheet, colSorted, dataStartRow, w.l.lastDataRow()),
			},
		},
		Title: []excelize.RichTextRun{{Text: "Q-Q Plot: " + label}},
	})
}

// addBoxPlot emulates a box-and-whisker chart with a stacked column:
// an invisible base up to Q1, then the Q1..median and median..Q3
// segments. Whisker values sit in the helper cells beside the chart.
func (w *sheetWriter) addBoxPlot(label string) error {
	return w.f.AddChart(w.sheet, anchorBox, &excelize.Chart{
		Type: excelize.ColStacked,
		Series: []excelize.ChartSeries{
			{
				Name:   sheetCell(w.sheet, colBoxLabel, 3),
				Values: sheetCell(w.sheet, colBoxValue, 3),
				Fill:   excelize.Fill{Type: "pattern", Pattern: 0},
			},
			{
				Name:   sheetCell(w.sheet, colBoxLabel, 4),
				Values: sheetCell(w.sheet, colBoxValue, 4),
			},
			{
				Name:   sheetCell(w.sheet, colBoxLabel, 5),
				Values: sheetCell(w.sheet, colBoxValue, 5),
			},
		},
		Title: []excelize.RichTextRun{{Text: "Box Plot: " + label}},
	})
}

// addDensityOverlay draws the observed and expected bin counts as two
// line series over the same bin edges.
func (w *sheetWriter) addDensityOverlay(label string) error {
	cats := sheetRange(w.sheet, colBinLo, dataStartRow, w.l.lastBinRow())
	return w.f.AddChart(w.sheet, anchorDensity, &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       "Empirical",
				Categories: cats,
				Values:     sheetRange(w.sheet, colObserved, dataStartRow, w.l.lastBinRow()),
			},
			{
				Name:       "Normal",
				Categories: cats,
				Values:     sheetRange(w.sheet, colExpected, dataStartRow, w.l.lastBinRow()),
			},
		},
		Title: []excelize.RichTextRun{{Text: "Density: " + label}},
	})
}

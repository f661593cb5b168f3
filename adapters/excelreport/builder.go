// Package excelreport renders sample analyses into a single Excel
// workbook. Derived statistics are written as spreadsheet formulas
// whose ranges are sized from each sample's row count, and the charts
// bind to the same ranges, so the workbook stays consistent when the
// raw values are edited in place.
package excelreport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"statreport/domain/report"
	"statreport/internal"
	"statreport/internal/analysis"
	"statreport/internal/errors"
)

const generatorName = "statreport"

// Overview sheet name, reserved so no sample sheet can shadow it.
const overviewSheet = "Overview"

// Builder writes report workbooks.
type Builder struct {
	logger *internal.Logger
	alpha  float64
}

// NewBuilder creates a workbook builder using the given significance
// level for every formula that embeds alpha.
func NewBuilder(logger *internal.Logger, alpha float64) *Builder {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Builder{logger: logger, alpha: alpha}
}

// Build writes one workbook holding a worksheet per analysis, in input
// order, plus an overview sheet when there are two or more. The file
// appears atomically: a temp file in the destination directory is
// renamed over the target only after a complete save.
func (b *Builder) Build(analyses []report.SampleAnalysis, outputPath, runID string) error {
	if len(analyses) == 0 {
		return errors.InvalidInput("no analyses to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyleSet(f)
	if err != nil {
		return errors.WriteError(outputPath, err)
	}

	used := map[string]bool{overviewSheet: true}
	var sheetNames []string
	for i, a := range analyses {
		name := sheetName(a.Sample.Label(), used)
		sheetNames = append(sheetNames, name)

		if i == 0 {
			// Rename the default sheet instead of leaving it behind.
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return errors.WriteError(outputPath, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return errors.WriteError(outputPath, err)
			}
		}

		if err := b.writeSheet(f, styles, name, a); err != nil {
			return errors.WriteError(outputPath, fmt.Errorf("sheet %s: %w", name, err))
		}
		b.logger.Debug("[ExcelBuilder] wrote sheet %s (n=%d)", name, a.Sample.Len())
	}

	if len(analyses) >= 2 {
		if err := b.writeOverview(f, styles, sheetNames, analyses); err != nil {
			return errors.WriteError(outputPath, err)
		}
	}

	if idx, err := f.GetSheetIndex(sheetNames[0]); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:     generatorName,
		Identifier:  runID,
		Description: fmt.Sprintf("run %s, %d sample(s)", runID, len(analyses)),
	}); err != nil {
		return errors.WriteError(outputPath, err)
	}

	return b.saveAtomic(f, outputPath)
}

// writeSheet fills one sample worksheet.
func (b *Builder) writeSheet(f *excelize.File, styles *styleSet, name string, a report.SampleAnalysis) error {
	values := a.Sample.Values()

	bins, err := analysis.NormalBins(values)
	if err != nil {
		// The chi-square table degrades with its test; the rest of the
		// sheet still renders.
		b.logger.Warn("[ExcelBuilder] %s: no chi-square table: %v", name, err)
		bins = nil
	}

	w := &sheetWriter{
		f:      f,
		sheet:  name,
		l:      layout{n: len(values), bins: len(bins)},
		styles: styles,
		alpha:  b.alpha,
	}

	if err := w.writeTitle(a.Sample.Label(), len(values)); err != nil {
		return err
	}
	if err := w.writeDataBlock(values); err != nil {
		return err
	}
	if err := w.writeQQHelpers(); err != nil {
		return err
	}
	if err := w.writeKSHelpers(); err != nil {
		return err
	}
	if len(bins) > 0 {
		if err := w.writeBinTable(bins); err != nil {
			return err
		}
	}
	if err := w.writeBoxHelpers(); err != nil {
		return err
	}
	if err := w.writeSummaryBlock(a); err != nil {
		return err
	}
	if err := w.addCharts(a.Sample.Label()); err != nil {
		return err
	}
	return w.setColumnWidths()
}

// writeOverview adds the cross-sheet comparison table: one row per
// sample, every cell a live reference into that sample's sheet.
func (b *Builder) writeOverview(f *excelize.File, styles *styleSet, names []string, analyses []report.SampleAnalysis) error {
	if _, err := f.NewSheet(overviewSheet); err != nil {
		return err
	}

	if err := f.MergeCell(overviewSheet, "A1", "H1"); err != nil {
		return err
	}
	if err := f.SetCellValue(overviewSheet, "A1", "Sample Comparison"); err != nil {
		return err
	}
	if err := f.SetCellStyle(overviewSheet, "A1", "H1", styles.title); err != nil {
		return err
	}

	headers := []string{"Sample", "N", "Mean", "Std Dev", "Median", "Skewness", "IQR Outliers", "K-S Verdict"}
	for i, h := range headers {
		ref, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(overviewSheet, ref, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(overviewSheet, ref, ref, styles.header); err != nil {
			return err
		}
	}

	rows := []int{rowCount, rowMean, rowStdDev, rowMedian, rowSkewness, rowIQRCount, rowKSSay}
	for i, name := range names {
		row := 3 + i
		ref, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(overviewSheet, ref, analyses[i].Sample.Label()); err != nil {
			return err
		}
		for j, statRow := range rows {
			ref, _ := excelize.CoordinatesToCellName(j+2, row)
			// The sample sheet leaves the skewness cell empty below three
			// observations, so a live reference would read as zero.
			if statRow == rowSkewness && analyses[i].Sample.Len() < 3 {
				if err := f.SetCellValue(overviewSheet, ref, "n/a"); err != nil {
					return err
				}
				continue
			}
			formula := sheetCell(name, colStat, statRow)
			if err := f.SetCellFormula(overviewSheet, ref, formula); err != nil {
				return err
			}
			if statRow != rowCount && statRow != rowIQRCount && statRow != rowKSSay {
				if err := f.SetCellStyle(overviewSheet, ref, ref, styles.number); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// saveAtomic serializes the workbook to a temp file next to the target
// and renames it into place, so a failed save never leaves a partial
// workbook at the destination.
func (b *Builder) saveAtomic(f *excelize.File, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WriteError(outputPath, err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.xlsx")
	if err != nil {
		return errors.WriteError(outputPath, err)
	}
	tmpPath := tmp.Name()

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.WriteError(outputPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.WriteError(outputPath, err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return errors.WriteError(outputPath, err)
	}

	b.logger.Info("[ExcelBuilder] wrote %s", outputPath)
	return nil
}

// setColumnWidths widens the label and helper columns.
func (w *sheetWriter) setColumnWidths() error {
	widths := []struct {
		from, to string
		width    float64
	}{
		{colIndex, colGrubbF, 11},
		{colLabel, colLabel, 22},
		{colStat, colStat, 14},
		{colSorted, colQuantile, 15},
		{colCDF, colDMinus, 12},
		{colBinLo, colChiTerm, 12},
		{colBoxLabel, colBoxLabel, 14},
	}
	for _, c := range widths {
		if err := w.f.SetColWidth(w.sheet, c.from, c.to, c.width); err != nil {
			return err
		}
	}
	return nil
}

// sheetName sanitizes a sample label into a legal, unique worksheet
// name: illegal characters dropped, 31-character cap, numeric suffix
// on collision. The cap counts runes, not bytes, so multi-byte labels
// are never cut mid-rune.
func sheetName(label string, used map[string]bool) string {
	name := label
	for _, ch := range []string{":", "\\", "/", "?", "*", "[", "]"} {
		name = strings.ReplaceAll(name, ch, "")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Sample"
	}
	name = truncateRunes(name, 31)

	candidate := name
	for i := 2; used[candidate]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncateRunes(name, 31-len(suffix)) + suffix
	}
	used[candidate] = true
	return candidate
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

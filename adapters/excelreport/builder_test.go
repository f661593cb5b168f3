package excelreport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"statreport/domain/report"
	"statreport/domain/sample"
	"statreport/internal/analysis"
)

func mustSample(t *testing.T, label string, values []float64) sample.SampleSet {
	t.Helper()
	set, err := sample.New(label, label+".txt", values, nil)
	require.NoError(t, err)
	return set
}

func buildWorkbook(t *testing.T, analyses []report.SampleAnalysis) string {
	t.Helper()
	out := filepath.Join(t.TempDir(), "report_pro.xlsx")
	b := NewBuilder(nil, 0.05)
	require.NoError(t, b.Build(analyses, out, "test-run"))
	return out
}

func analyzeValues(t *testing.T, label string, values []float64) report.SampleAnalysis {
	t.Helper()
	return analysis.Analyze(mustSample(t, label, values), 0.05)
}

func TestBuild_FormulasAdaptToRowCount(t *testing.T) {
	small := analyzeValues(t, "small", []float64{10, 20, 30})
	large := analyzeValues(t, "large", []float64{
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20,
	})

	out := buildWorkbook(t, []report.SampleAnalysis{small, large})
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	// The mean formula covers exactly the sample's rows, nothing more.
	formula, err := f.GetCellFormula("small", "I4")
	require.NoError(t, err)
	assert.Equal(t, "AVERAGE(B3:B5)", formula)

	formula, err = f.GetCellFormula("large", "I4")
	require.NoError(t, err)
	assert.Equal(t, "AVERAGE(B3:B22)", formula)

	formula, err = f.GetCellFormula("large", "I5")
	require.NoError(t, err)
	assert.Equal(t, "STDEV.S(B3:B22)", formula)

	formula, err = f.GetCellFormula("large", "I11")
	require.NoError(t, err)
	assert.Equal(t, "QUARTILE.INC(B3:B22,1)", formula)
}

func TestBuild_RawValuesAreLiterals(t *testing.T) {
	a := analyzeValues(t, "raw", []float64{10.5, 20.5, 30.5})

	out := buildWorkbook(t, []report.SampleAnalysis{a})
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	for i, want := range []string{"10.5", "20.5", "30.5"} {
		cellRef, _ := excelize.CoordinatesToCellName(2, 3+i)
		got, err := f.GetCellValue("raw", cellRef)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		formula, err := f.GetCellFormula("raw", cellRef)
		require.NoError(t, err)
		assert.Empty(t, formula, "raw values must not be formulas")
	}
}

func TestBuild_DerivedCellsAreFormulas(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(i%7) + float64(i)*0.1
	}
	a := analyzeValues(t, "derived", values)

	out := buildWorkbook(t, []report.SampleAnalysis{a})
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	// Every summary statistic row except the Shapiro-Wilk literals and
	// the Romanovsky constant must hold a formula.
	formulaRows := []int{
		rowCount, rowMean, rowStdDev, rowVariance, rowMin, rowMax, rowRange,
		rowMedian, rowQ1, rowQ3, rowIQR, rowSkewness, rowKurtosis, rowStdError,
		rowCV, rowMeanCILo, rowMeanCIHi, rowSigmaCILo, rowSigmaCIHi,
		rowIQRLo, rowIQRHi, rowIQRCount, rowSigmaLo, rowSigmaHi, rowSigmaCount,
		rowGrubbsG, rowGrubbsCrit, rowRomanStat, rowKSStat, rowKSCrit,
		rowChiStat, rowChiDF, rowChiP,
	}
	for _, row := range formulaRows {
		formula, err := f.GetCellFormula("derived", cell(colStat, row))
		require.NoError(t, err)
		assert.NotEmpty(t, formula, "summary row %d must be a live formula", row)
	}

	// Z-score and flag columns are formulas per observation.
	for _, col := range []string{colZScore, colIQRF, colSigmaF, colGrubbF} {
		formula, err := f.GetCellFormula("derived", cell(col, dataStartRow))
		require.NoError(t, err)
		assert.NotEmpty(t, formula, "column %s must be a live formula", col)
	}

	// Q-Q helper column uses SMALL over the absolute data range.
	formula, err := f.GetCellFormula("derived", cell(colSorted, dataStartRow))
	require.NoError(t, err)
	assert.Contains(t, formula, "SMALL($B$3:$B$42")
}

func TestBuild_CVFormulaGuardsZeroMean(t *testing.T) {
	// A zero-mean sample must not render a #DIV/0! in the CV cell; the
	// formula blanks itself instead, mirroring the computed statistics.
	a := analyzeValues(t, "centered", []float64{-1, 0, 1})

	out := buildWorkbook(t, []report.SampleAnalysis{a})
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	formula, err := f.GetCellFormula("centered", cell(colStat, rowCV))
	require.NoError(t, err)
	assert.Equal(t, "IF($I$4=0,\"\",$I$5/$I$4*100)", formula)
}

func TestBuild_OneSheetPerSampleInInputOrder(t *testing.T) {
	a := analyzeValues(t, "zebra", []float64{1, 2, 3})
	b := analyzeValues(t, "alpha", []float64{4, 5, 6})

	out := buildWorkbook(t, []report.SampleAnalysis{a, b})
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.GreaterOrEqual(t, len(sheets), 2)
	assert.Equal(t, "zebra", sheets[0])
	assert.Equal(t, "alpha", sheets[1])
	assert.Contains(t, sheets, overviewSheet)
}

func TestBuild_SingleSampleHasNoOverview(t *testing.T) {
	a := analyzeValues(t, "only", []float64{1, 2, 3, 4})

	out := buildWorkbook(t, []report.SampleAnalysis{a})
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	assert.NotContains(t, f.GetSheetList(), overviewSheet)
}

func TestBuild_OverviewUsesCrossSheetFormulas(t *testing.T) {
	a := analyzeValues(t, "first", []float64{1, 2, 3})
	b := analyzeValues(t, "second", []float64{4, 5, 6})

	out := buildWorkbook(t, []report.SampleAnalysis{a, b})
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	formula, err := f.GetCellFormula(overviewSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "'first'!$I$4", formula)

	formula, err = f.GetCellFormula(overviewSheet, "C4")
	require.NoError(t, err)
	assert.Equal(t, "'second'!$I$4", formula)
}

func TestBuild_OverviewSkipsSkewnessForTinySamples(t *testing.T) {
	tiny := analyzeValues(t, "pair", []float64{1, 2})
	full := analyzeValues(t, "trio", []float64{1, 2, 4})

	out := buildWorkbook(t, []report.SampleAnalysis{tiny, full})
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	// Two observations carry no skewness cell on their sheet, so the
	// overview marks the column instead of referencing an empty cell.
	got, err := f.GetCellValue(overviewSheet, "F3")
	require.NoError(t, err)
	assert.Equal(t, "n/a", got)

	formula, err := f.GetCellFormula(overviewSheet, "F3")
	require.NoError(t, err)
	assert.Empty(t, formula)

	formula, err = f.GetCellFormula(overviewSheet, "F4")
	require.NoError(t, err)
	assert.Equal(t, "'trio'!$I$14", formula)
}

func TestBuild_StampsRunID(t *testing.T) {
	a := analyzeValues(t, "s", []float64{1, 2, 3})
	out := filepath.Join(t.TempDir(), "report_pro.xlsx")
	require.NoError(t, NewBuilder(nil, 0.05).Build([]report.SampleAnalysis{a}, out, "run-42"))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "run-42", props.Identifier)
}

func TestBuild_NoPartialFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	// The destination is a directory, so the final rename must fail.
	out := filepath.Join(dir, "blocked")
	require.NoError(t, os.MkdirAll(out, 0o755))

	a := analyzeValues(t, "s", []float64{1, 2, 3})
	err := NewBuilder(nil, 0.05).Build([]report.SampleAnalysis{a}, out, "run")
	require.Error(t, err)

	// No temp file may survive the failed save.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".report-"),
			"leftover temp file %s", e.Name())
	}
}

func TestSheetName_SanitizesAndDeduplicates(t *testing.T) {
	used := map[string]bool{}

	assert.Equal(t, "data", sheetName("data", used))
	assert.Equal(t, "data (2)", sheetName("data", used))
	assert.Equal(t, "ab", sheetName("a/b", used))

	long := strings.Repeat("x", 40)
	got := sheetName(long, used)
	assert.Len(t, got, 31)

	got2 := sheetName(long, used)
	assert.Len(t, got2, 31)
	assert.NotEqual(t, got, got2)
}

func TestSheetName_TruncatesOnRunesNotBytes(t *testing.T) {
	used := map[string]bool{}

	// 2 ASCII + 38 two-byte Cyrillic runes: a byte-wise cut at 31
	// would land mid-rune.
	long := "ab" + strings.Repeat("д", 38)
	got := sheetName(long, used)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 31, utf8.RuneCountInString(got), "Excel's cap is 31 characters")

	// The dedup suffix must not push the name past the cap either.
	got2 := sheetName(long, used)
	assert.True(t, utf8.ValidString(got2))
	assert.LessOrEqual(t, utf8.RuneCountInString(got2), 31)
	assert.NotEqual(t, got, got2)

	// Short multi-byte labels pass through untouched.
	assert.Equal(t, "выборка", sheetName("выборка", used))
}

package excelreport

import "fmt"

// Column plan of a sample worksheet. Data occupies rows 3..n+2;
// every derived range below is sized from the sample's row count.
//
//	A      row index            K  sorted values (SMALL)
//	B      raw values           L  theoretical normal quantiles
//	C      z-scores             N  theoretical CDF at sorted value
//	D..F   outlier flags        O  D+   P  D-
//	H/I    summary block        R..V  chi-square bin table
//	                            W/X   box plot helper cells
const (
	dataStartRow = 3

	colIndex  = "A"
	colValue  = "B"
	colZScore = "C"
	colIQRF   = "D"
	colSigmaF = "E"
	colGrubbF = "F"

	colLabel = "H"
	colStat  = "I"

	colSorted   = "K"
	colQuantile = "L"
	colCDF      = "N"
	colDPlus    = "O"
	colDMinus   = "P"

	colBinLo    = "R"
	colBinHi    = "S"
	colObserved = "T"
	colExpected = "U"
	colChiTerm  = "V"

	colBoxLabel = "W"
	colBoxValue = "X"
)

// Summary block rows in column I. Formula cells elsewhere on the
// sheet reference these as absolute addresses.
const (
	rowSummaryHead = 2
	rowCount       = 3
	rowMean        = 4
	rowStdDev      = 5
	rowVariance    = 6
	rowMin         = 7
	rowMax         = 8
	rowRange       = 9
	rowMedian      = 10
	rowQ1          = 11
	rowQ3          = 12
	rowIQR         = 13
	rowSkewness    = 14
	rowKurtosis    = 15
	rowStdError    = 16
	rowCV          = 17
	rowMeanCILo    = 18
	rowMeanCIHi    = 19
	rowSigmaCILo   = 20
	rowSigmaCIHi   = 21

	rowOutlierHead = 23
	rowIQRLo       = 24
	rowIQRHi       = 25
	rowIQRCount    = 26
	rowSigmaLo     = 27
	rowSigmaHi     = 28
	rowSigmaCount  = 29
	rowGrubbsG     = 30
	rowGrubbsCrit  = 31
	rowGrubbsSay   = 32

	rowNormalHead  = 34
	rowRomanStat   = 35
	rowRomanCrit   = 36
	rowRomanSay    = 37
	rowKSStat      = 38
	rowKSCrit      = 39
	rowKSSay       = 40
	rowChiStat     = 41
	rowChiDF       = 42
	rowChiP        = 43
	rowChiSay      = 44
	rowSWStat      = 45
	rowSWP         = 46
	rowSWSay       = 47
)

// layout resolves cell references for one sheet with n data rows and
// k chi-square bins.
type layout struct {
	n    int
	bins int
}

func (l layout) lastDataRow() int { return dataStartRow + l.n - 1 }
func (l layout) lastBinRow() int  { return dataStartRow + l.bins - 1 }

// cell returns a relative reference like B3.
func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// abs returns an absolute reference like $B$3.
func abs(col string, row int) string {
	return fmt.Sprintf("$%s$%d", col, row)
}

// stat returns an absolute reference into the summary column, $I$row.
func stat(row int) string {
	return abs(colStat, row)
}

// dataRange returns the raw-value range B3:Bn as a relative reference.
func (l layout) dataRange() string {
	return fmt.Sprintf("%s%d:%s%d", colValue, dataStartRow, colValue, l.lastDataRow())
}

// dataRangeAbs returns the raw-value range as $B$3:$B$n.
func (l layout) dataRangeAbs() string {
	return fmt.Sprintf("%s:%s", abs(colValue, dataStartRow), abs(colValue, l.lastDataRow()))
}

// colRange returns col3:colN over the data rows.
func (l layout) colRange(col string) string {
	return fmt.Sprintf("%s%d:%s%d", col, dataStartRow, col, l.lastDataRow())
}

// binRange returns col3:colK over the bin-table rows.
func (l layout) binRange(col string) string {
	return fmt.Sprintf("%s%d:%s%d", col, dataStartRow, col, l.lastBinRow())
}

// sheetRange returns a fully qualified absolute range for chart
// bindings, 'Sheet'!$C$3:$C$n.
func sheetRange(sheet, col string, from, to int) string {
	return fmt.Sprintf("'%s'!%s:%s", sheet, abs(col, from), abs(col, to))
}

// sheetCell returns a fully qualified absolute cell, 'Sheet'!$X$3.
func sheetCell(sheet, col string, row int) string {
	return fmt.Sprintf("'%s'!%s", sheet, abs(col, row))
}

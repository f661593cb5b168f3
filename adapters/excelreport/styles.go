package excelreport

import (
	"github.com/xuri/excelize/v2"
)

// styleSet holds the style IDs registered on one workbook.
type styleSet struct {
	title    int
	header   int
	label    int
	number   int
	integer  int
	verdict  int
	condFlag int
}

const numberFormat = "0.0000"

// newStyleSet registers the shared cell styles on the workbook.
func newStyleSet(f *excelize.File) (*styleSet, error) {
	s := &styleSet{}
	var err error

	s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"5B9BD5"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "2F5597", Style: 2},
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	s.label, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, err
	}

	numFmt := numberFormat
	s.number, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
		Border: []excelize.Border{
			{Type: "left", Color: "D9D9D9", Style: 1},
			{Type: "right", Color: "D9D9D9", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	intFmt := "0"
	s.integer, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &intFmt,
	})
	if err != nil {
		return nil, err
	}

	s.verdict, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Italic: true},
	})
	if err != nil {
		return nil, err
	}

	// Fill applied by conditional format to flag cells equal to 1.
	s.condFlag, err = f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
		Font: &excelize.Font{Color: "9C0006"},
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

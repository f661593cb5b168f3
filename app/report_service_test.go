package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"statreport/adapters/excelreport"
	"statreport/adapters/textdata"
	"statreport/internal/errors"
)

func newService(t *testing.T) (*ReportService, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out", "report_pro.xlsx")
	loader := textdata.NewLoader(nil)
	builder := excelreport.NewBuilder(nil, 0.05)
	return NewReportService(loader, builder, nil, out), out
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerate_TwoFiles(t *testing.T) {
	service, out := newService(t)
	a := writeInput(t, "group_a.txt", "1 10\n2 20\n3 30\n")
	b := writeInput(t, "group_b.txt", "1 1.5\n2 2.5\n3 3.5\n4 4.5\n")

	result, err := service.Generate(context.Background(), []string{a, b}, 0.05)
	require.NoError(t, err)
	assert.Equal(t, out, result.OutputPath)
	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.LoadErrors)
	// Two samples plus the combined set.
	require.Len(t, result.Analyses, 3)
	assert.Equal(t, "group_a", result.Analyses[0].Sample.Label())
	assert.Equal(t, "group_b", result.Analyses[1].Sample.Label())
	assert.Equal(t, "Combined", result.Analyses[2].Sample.Label())

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "group_a")
	assert.Contains(t, sheets, "group_b")
	assert.Contains(t, sheets, "Combined")
}

func TestGenerate_SingleFileNoCombined(t *testing.T) {
	service, _ := newService(t)
	a := writeInput(t, "solo.txt", "1 10\n2 20\n3 30\n")

	result, err := service.Generate(context.Background(), []string{a}, 0.05)
	require.NoError(t, err)
	require.Len(t, result.Analyses, 1)
	assert.Equal(t, "solo", result.Analyses[0].Sample.Label())
}

func TestGenerate_PartialFailureStillWrites(t *testing.T) {
	service, out := newService(t)
	good := writeInput(t, "good.txt", "1 10\n2 20\n3 30\n")
	missing := filepath.Join(t.TempDir(), "missing.txt")

	result, err := service.Generate(context.Background(), []string{good, missing}, 0.05)
	require.NoError(t, err, "one loadable file is enough to produce a report")
	require.Len(t, result.LoadErrors, 1)
	assert.Contains(t, result.LoadErrors[0].Error(), "missing.txt")

	_, statErr := os.Stat(out)
	assert.NoError(t, statErr)
}

func TestGenerate_AllFilesFail(t *testing.T) {
	service, out := newService(t)
	missing1 := filepath.Join(t.TempDir(), "one.txt")
	missing2 := filepath.Join(t.TempDir(), "two.txt")

	_, err := service.Generate(context.Background(), []string{missing1, missing2}, 0.05)
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
	// The message names every failing file.
	assert.Contains(t, err.Error(), "one.txt")
	assert.Contains(t, err.Error(), "two.txt")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output may exist when every file fails")
}

func TestGenerate_NoInputs(t *testing.T) {
	service, _ := newService(t)

	_, err := service.Generate(context.Background(), nil, 0.05)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestGenerate_CountsLineWarnings(t *testing.T) {
	service, _ := newService(t)
	messy := writeInput(t, "messy.txt", "1 10\nbroken line here\n2 20\n3 thirty\n4 40\n")

	result, err := service.Generate(context.Background(), []string{messy}, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 2, result.WarningCount)
}

func TestGenerate_CanceledContext(t *testing.T) {
	service, _ := newService(t)
	a := writeInput(t, "a.txt", "1 10\n2 20\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Generate(ctx, []string{a}, 0.05)
	assert.ErrorIs(t, err, context.Canceled)
}

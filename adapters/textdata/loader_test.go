package textdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statreport/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_TwoColumnFormat(t *testing.T) {
	path := writeFile(t, "group_a.txt", "1 10\n2 20\n3 30\n")
	loader := NewLoader(nil)

	set, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "group_a", set.Label())
	assert.Equal(t, []float64{10, 20, 30}, set.Values())
	assert.Empty(t, set.Warnings())
}

func TestLoadFile_SkipsBlanksAndComments(t *testing.T) {
	content := "# header comment\n\n1 1.5\n// another comment\n2 2.5\n   \n3 3.5\n"
	path := writeFile(t, "s.txt", content)

	set, err := NewLoader(nil).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, set.Values())
	assert.Empty(t, set.Warnings())
}

func TestLoadFile_BareValueLines(t *testing.T) {
	path := writeFile(t, "bare.txt", "10.5\n11.5\n12.5\n")

	set, err := NewLoader(nil).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{10.5, 11.5, 12.5}, set.Values())
}

func TestLoadFile_DecimalComma(t *testing.T) {
	path := writeFile(t, "comma.txt", "1 12,5\n2 13,5\n")

	set, err := NewLoader(nil).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{12.5, 13.5}, set.Values())
}

func TestLoadFile_MalformedLinesBecomeWarnings(t *testing.T) {
	content := "1 10\nnot a number\n2 twenty\n3 30\n4 5 6\n"
	path := writeFile(t, "messy.txt", content)

	set, err := NewLoader(nil).LoadFile(path)
	require.NoError(t, err, "malformed lines must never fail the file")
	assert.Equal(t, []float64{10, 30}, set.Values())

	warnings := set.Warnings()
	require.Len(t, warnings, 3)
	assert.Equal(t, 2, warnings[0].Line)
	assert.Equal(t, 3, warnings[1].Line)
	assert.Equal(t, 5, warnings[2].Line)
	for _, w := range warnings {
		assert.Equal(t, path, w.File)
		assert.NotEmpty(t, w.Reason)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := NewLoader(nil).LoadFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
}

func TestLoadFile_TooFewRows(t *testing.T) {
	path := writeFile(t, "single.txt", "1 42\n")

	_, err := NewLoader(nil).LoadFile(path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "fewer than 2")
}

func TestLoad_PreservesOrderAndCollectsErrors(t *testing.T) {
	good1 := writeFile(t, "b_second.txt", "1 1\n2 2\n")
	good2 := writeFile(t, "a_first.txt", "1 3\n2 4\n")
	missing := filepath.Join(t.TempDir(), "gone.txt")

	sets, errs := NewLoader(nil).Load([]string{good1, missing, good2})
	require.Len(t, sets, 2)
	require.Len(t, errs, 1)

	// Input order, not lexical order.
	assert.Equal(t, "b_second", sets[0].Label())
	assert.Equal(t, "a_first", sets[1].Label())
	assert.Contains(t, errs[0].Error(), "gone.txt")
}

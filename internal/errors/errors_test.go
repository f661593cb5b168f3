package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadError_CarriesCodeAndCause(t *testing.T) {
	cause := fmt.Errorf("no such file")
	err := LoadError("data.txt", cause)

	assert.Equal(t, CodeLoadError, GetCode(err))
	assert.Contains(t, err.Error(), "data.txt")
	assert.Contains(t, err.Error(), "no such file")
	assert.ErrorIs(t, err, cause)
}

func TestWrap_PreservesCode(t *testing.T) {
	inner := WriteError("out.xlsx", fmt.Errorf("disk full"))
	wrapped := Wrap(inner, "report generation failed")

	assert.Equal(t, CodeWriteError, GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "report generation failed")
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))
	assert.NoError(t, WithCode(CodeLoadError, nil))
}

func TestIs_MatchesByCode(t *testing.T) {
	err := NotComputable("kurtosis", "need at least 4 values")
	sentinel := New(CodeNotComputable, "")

	assert.True(t, stderrors.Is(err, sentinel))
	assert.False(t, stderrors.Is(err, New(CodeWriteError, "")))
}

func TestGetCode_UnknownForPlainErrors(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestWithCode_ReplacesCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, fmt.Errorf("bad flag"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
}

package vcard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode_String(t *testing.T) {
	cases := map[ErrorCode]string{
		OK:              "OK",
		InvalidFile:     "invalid file",
		InvalidCard:     "invalid card",
		InvalidProperty: "invalid property",
		InvalidDateTime: "invalid date/time",
		WriteError:      "write error",
		OtherError:      "other error",
	}

	for code, want := range cases {
		assert.Equal(t, want, code.String())
	}
}

func TestErrorCode_StringUnknown(t *testing.T) {
	assert.Equal(t, "unknown error code 42", ErrorCode(42).String())
}

func TestErrorCode_Values(t *testing.T) {
	// The numeric values are fixed by the native ABI.
	assert.Equal(t, int32(0), int32(OK))
	assert.Equal(t, int32(1), int32(InvalidFile))
	assert.Equal(t, int32(2), int32(InvalidCard))
	assert.Equal(t, int32(3), int32(InvalidProperty))
	assert.Equal(t, int32(4), int32(InvalidDateTime))
	assert.Equal(t, int32(5), int32(WriteError))
	assert.Equal(t, int32(6), int32(OtherError))
}

func TestCodeError(t *testing.T) {
	err := NewCodeError("createCard", "a.vcf", InvalidCard)
	assert.Equal(t, "createCard a.vcf: invalid card (code 2)", err.Error())

	var codeErr *CodeError
	require.True(t, errors.As(error(err), &codeErr))
	assert.Equal(t, InvalidCard, codeErr.Code)
}

func TestCodeError_NoPath(t *testing.T) {
	err := NewCodeError("validateCard", "", InvalidProperty)
	assert.Equal(t, "validateCard: invalid property (code 3)", err.Error())
}

func TestNewCodeError_PanicsOnOK(t *testing.T) {
	assert.Panics(t, func() {
		NewCodeError("createCard", "a.vcf", OK)
	})
}

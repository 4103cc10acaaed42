package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := DecodeError("not a spreadsheet", io.ErrUnexpectedEOF)
	wrapped := Wrap(base, "upload rejected")

	assert.Equal(t, CodeDecodeError, GetCode(wrapped))
	assert.True(t, IsDecodeError(wrapped))
	assert.False(t, IsEncodingError(wrapped))
	assert.True(t, stderrors.Is(wrapped, io.ErrUnexpectedEOF))
	assert.Equal(t, "upload rejected: not a spreadsheet: unexpected EOF", wrapped.Error())
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrapf(io.EOF, "reading %s", "1.xlsx")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "reading 1.xlsx: EOF", wrapped.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(io.EOF))
	assert.Equal(t, CodeConfigInvalid, GetCode(ConfigInvalid("PORT is required")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeEncodingError, "cell B2", io.ErrShortWrite)
	assert.True(t, IsEncodingError(err))
	assert.Nil(t, WithCode(CodeEncodingError, "cell B2", nil))
	assert.Equal(t, "cell B2: short write", err.Error())
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("No file uploaded")
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "No file uploaded", err.Error())
	assert.Nil(t, err.Cause)
}

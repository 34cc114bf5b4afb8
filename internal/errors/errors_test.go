package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := ConfigInvalid("PORT must be numeric")
	wrapped := Wrap(base, "failed to load server configuration")

	assert.Equal(t, CodeConfigInvalid, GetCode(wrapped))
	assert.Equal(t, "failed to load server configuration: PORT must be numeric", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	wrapped := Wrapf(cause, "saving %s", "x")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "saving x: disk full", wrapped.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("analysis"))
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, fmt.Errorf("bad form"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "bad form", err.Error())
}

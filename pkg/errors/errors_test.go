package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/mgolubev/pot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "file not found",
			wantStr: "[NOT_FOUND] file not found",
		},
		{
			name:    "conflict_error",
			code:    errors.ErrConflict,
			message: "destination occupied",
			wantStr: "[CONFLICT] destination occupied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.wantStr, err.Error())
			assert.Equal(t, tt.code, err.Code)
		})
	}
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("permission denied")
	err := errors.Wrap(inner, errors.ErrFileAccess, "cannot write target")

	require.NotNil(t, err)
	assert.Equal(t, "[FILE_ACCESS] cannot write target: permission denied", err.Error())
	assert.Equal(t, inner, stderrors.Unwrap(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "should be nil"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "should be %s", "nil"))
}

func TestIs(t *testing.T) {
	err := errors.Newf(errors.ErrAlreadyExists, "store %s already initialized", "/tmp/pot")

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrAlreadyExists, "other message")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrNotFound, "other message")))
}

func TestIsErrorCode(t *testing.T) {
	err := errors.New(errors.ErrBootstrapFailed, "git exited with status 128")

	assert.True(t, errors.IsErrorCode(err, errors.ErrBootstrapFailed))
	assert.False(t, errors.IsErrorCode(err, errors.ErrConflict))
	assert.False(t, errors.IsErrorCode(fmt.Errorf("plain"), errors.ErrBootstrapFailed))

	// Code survives wrapping with %w
	wrapped := fmt.Errorf("install: %w", err)
	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrBootstrapFailed))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrManifestParse, errors.GetErrorCode(errors.New(errors.ErrManifestParse, "bad yaml")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrConflict, "destination occupied").
		WithDetail("path", "/home/user/.vimrc")

	assert.Equal(t, "/home/user/.vimrc", err.Details["path"])
}

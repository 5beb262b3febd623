package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  NotFound("profile not found"),
			want: "profile not found",
		},
		{
			name: "error with cause",
			err:  Wrap(errors.New("underlying error"), ErrCodeInternal, "failed to process"),
			want: "failed to process: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_UnwrapThroughFmt(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("profile repo: %w", Wrapf(cause, ErrCodeInternal, "load %s", "u1"))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeInternal, GetCode(err))
	assert.Equal(t, "profile repo: load u1: boom", err.Error())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
		is   func(error) bool
	}{
		{name: "not found", err: NotFoundf("profile %s not found", "u1"), code: ErrCodeNotFound, is: IsNotFound},
		{name: "conflict", err: Conflict("exists"), code: ErrCodeConflict, is: IsConflict},
		{name: "validation", err: Validation("bad"), code: ErrCodeValidation, is: IsValidation},
		{name: "internal", err: Internal("oops"), code: ErrCodeInternal, is: func(err error) bool {
			return IsAppError(err, ErrCodeInternal)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.True(t, tt.is(tt.err))
			assert.False(t, IsTimeout(tt.err))
		})
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("display_name", "too long")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "display_name", GetField(err))
}

func TestHelpers_NonAppError(t *testing.T) {
	plain := errors.New("plain")
	assert.Empty(t, GetCode(plain))
	assert.Empty(t, GetField(plain))
	assert.False(t, IsNotFound(plain))
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
}

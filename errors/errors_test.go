package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  &Error{Code: ErrValidation, Message: "XML file path is invalid"},
			want: "XML file path is invalid",
		},
		{
			name: "with op",
			err:  &Error{Code: ErrValidation, Message: "XML file path is invalid", Op: "racadm set"},
			want: "racadm set: XML file path is invalid",
		},
		{
			name: "with op and cause",
			err:  &Error{Code: ErrExecution, Message: "failed to start racadm", Op: "racadm get", Cause: fmt.Errorf("no such file")},
			want: "racadm get: failed to start racadm: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorsIsAndAs(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, ErrConnection, "dial management station")
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, errors.Is(wrapped, cause))
	assert.True(t, errors.Is(wrapped, &Error{Code: ErrConnection}))
	assert.False(t, errors.Is(wrapped, &Error{Code: ErrValidation}))

	var e *Error
	require.True(t, errors.As(wrapped, &e))
	assert.Equal(t, "dial management station", e.Message)
	assert.Equal(t, ErrConnection, GetCode(wrapped))
}

func TestWithOp(t *testing.T) {
	assert.Nil(t, WithOp(nil, "op"))

	err := WithOp(WithContext(New(ErrJobFailed, "Job Failed during process"), map[string]interface{}{"attempts": 2}), "wait job")
	assert.Equal(t, ErrJobFailed, GetCode(err))
	assert.Equal(t, "wait job: Job Failed during process", err.Error())
	assert.Equal(t, 2, GetContext(err)["attempts"])

	plain := WithOp(fmt.Errorf("boom"), "stage")
	assert.Equal(t, ErrUnknown, GetCode(plain))
	assert.Equal(t, "stage: boom", plain.Error())
}

func TestWithContext_Merges(t *testing.T) {
	err := WithContext(New(ErrCommandRejected, "rejected"), map[string]interface{}{"stdout": "a", "exitCode": 1})
	err = WithContext(err, map[string]interface{}{"exitCode": 2, "stderr": "b"})

	ctx := GetContext(err)
	assert.Equal(t, "a", ctx["stdout"])
	assert.Equal(t, "b", ctx["stderr"])
	assert.Equal(t, 2, ctx["exitCode"])

	assert.Nil(t, WithContext(nil, map[string]interface{}{"k": "v"}))
	assert.Nil(t, GetContext(fmt.Errorf("plain")))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsValidation(New(ErrValidation, "x")))
	assert.True(t, IsExecution(Newf(ErrExecution, "exit %d", 127)))
	assert.True(t, IsCommandRejected(New(ErrCommandRejected, "x")))
	assert.True(t, IsCancelled(New(ErrCancelled, "x")))

	for _, code := range []ErrorCode{ErrJobFailed, ErrJobTimedOut, ErrJobInvalidState} {
		assert.True(t, IsJobError(New(code, "x")), code.String())
	}
	assert.False(t, IsJobError(New(ErrCancelled, "x")))
	assert.False(t, IsJobError(nil))
	assert.Equal(t, ErrUnknown, GetCode(nil))
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "job timed out", ErrJobTimedOut.String())
	assert.Equal(t, "code(99)", ErrorCode(99).String())
}

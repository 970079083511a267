package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestError_Error(t *testing.T) {
	err := New(CodeCapacityExceeded, "search space exhausted")
	assert.Equal(t, "[CAPACITY_EXCEEDED] search space exhausted", err.Error())

	withField := NewWithField(CodeInvalidDegree, "must be >= -1", "degree")
	assert.Equal(t, "[INVALID_DEGREE] must be >= -1 (field: degree)", withField.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeStoreError, "edge fetch failed")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeStoreError, Code(err))
}

func TestError_GRPCMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want codes.Code
	}{
		{CodeInvalidArgument, codes.InvalidArgument},
		{CodeInvalidDegree, codes.InvalidArgument},
		{CodeInvalidSkipDegree, codes.InvalidArgument},
		{CodeLabelNotFound, codes.InvalidArgument},
		{CodeCapacityExceeded, codes.ResourceExhausted},
		{CodeTimeout, codes.DeadlineExceeded},
		{CodeVertexNotFound, codes.NotFound},
		{CodeStoreError, codes.Unavailable},
		{CodeUnauthenticated, codes.Unauthenticated},
		{CodeInternal, codes.Internal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "boom")
			st, ok := status.FromError(ToGRPC(err))
			require.True(t, ok)
			assert.Equal(t, tt.want, st.Code())
		})
	}
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeInvalidCapacity, http.StatusBadRequest},
		{CodeCapacityExceeded, http.StatusUnprocessableEntity},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeVertexNotFound, http.StatusNotFound},
		{CodeStoreError, http.StatusBadGateway},
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "boom").HTTPStatus())
		})
	}
}

func TestIs(t *testing.T) {
	err := New(CodeCapacityExceeded, "too big")
	assert.True(t, Is(err, CodeCapacityExceeded))
	assert.False(t, Is(err, CodeInternal))
	assert.False(t, Is(errors.New("plain"), CodeCapacityExceeded))

	// Wrapped via fmt-style chains still match.
	wrapped := Wrap(err, CodeStoreError, "outer")
	assert.True(t, Is(wrapped, CodeStoreError))
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	plain := errors.New("plain failure")
	appErr := From(plain)
	require.NotNil(t, appErr)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, plain)

	typed := New(CodeInvalidLimit, "nope")
	assert.Same(t, typed, From(typed))
}

func TestWithDetailsAndSeverity(t *testing.T) {
	err := New(CodeCapacityExceeded, "boom").
		WithDetails("capacity", int64(100)).
		WithDetails("size", int64(250)).
		WithSeverity(SeverityCritical)

	assert.Equal(t, int64(100), err.Details["capacity"])
	assert.Equal(t, int64(250), err.Details["size"])
	assert.True(t, IsCritical(err))
	assert.False(t, IsWarning(err))
	assert.Equal(t, "critical", err.Severity.String())
}

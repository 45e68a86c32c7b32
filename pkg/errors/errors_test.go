package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	err := &Error{
		Type:    ErrorTypeNetwork,
		Message: "connection refused",
		Code:    0,
	}
	assert.Equal(t, "network error (code 0): connection refused", err.Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		retryable bool
	}{
		{"network errors are retryable", ErrorTypeNetwork, true},
		{"rate limit errors are retryable", ErrorTypeRateLimit, true},
		{"server errors are retryable", ErrorTypeServerError, true},
		{"auth errors are not retryable", ErrorTypeAuth, false},
		{"resolution errors are not retryable", ErrorTypeResolution, false},
		{"no data errors are not retryable", ErrorTypeNoData, false},
		{"parsing errors are not retryable", ErrorTypeParsing, false},
		{"unknown errors are not retryable", ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.errorType))
		})
	}
}

func TestIsRetryableStatusCode(t *testing.T) {
	tests := []struct {
		code      int
		retryable bool
	}{
		{0, true},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{504, true},
		{505, true},
		{401, false},
		{403, false},
		{404, false},
		{200, false},
		{400, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.retryable, IsRetryableStatusCode(tt.code), "status %d", tt.code)
	}
}

func TestTypedConstructors(t *testing.T) {
	resErr := NewResolutionError("https://example.com/p/abc/")
	assert.True(t, IsResolution(resErr))
	assert.False(t, IsNoData(resErr))
	assert.Contains(t, resErr.Message, "could not resolve")

	ndErr := NewNoDataError("ghost_account")
	assert.True(t, IsNoData(ndErr))
	assert.False(t, IsResolution(ndErr))
	assert.Contains(t, ndErr.Message, "No data found")
}

package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientError_IsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *ClientError
		want bool
	}{
		{name: "validation", err: NewValidationError("temperature", "temperature must be >= 0"), want: false},
		{name: "transport", err: NewTransportError("request timed out", nil), want: true},
		{name: "protocol", err: NewProtocolError(500, "internal error"), want: true},
		{name: "format", err: NewFormatError("could not find 'choices' in the response"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.IsRetryable())
		})
	}
}

func TestClientError_Error(t *testing.T) {
	e := NewProtocolError(503, "overloaded")
	assert.Contains(t, e.Error(), "503")
	assert.Contains(t, e.Error(), string(ErrorKindProtocol))

	wrapped := NewTransportError("connection error", errors.New("dial tcp: refused"))
	assert.Contains(t, wrapped.Error(), "dial tcp: refused")
	assert.Equal(t, "dial tcp: refused", wrapped.Unwrap().Error())
}

func TestClientError_ErrorsAs(t *testing.T) {
	var err error = NewFormatError("bad body")

	var ce *ClientError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrorKindFormat, ce.Kind)
}

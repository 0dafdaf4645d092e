package app

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitError(t *testing.T) {
	err := &InitError{Component: "backend", Err: io.EOF}

	assert.Equal(t, "init backend: EOF", err.Error())
	assert.ErrorIs(t, err, io.EOF)
}

func TestInitErrorWithoutCause(t *testing.T) {
	err := &InitError{Component: "grid"}
	assert.Equal(t, "init grid", err.Error())
	assert.NoError(t, err.Unwrap())

	var nilErr *InitError
	assert.Equal(t, "", nilErr.Error())
	assert.NoError(t, nilErr.Unwrap())
}

func TestComponentError(t *testing.T) {
	tests := []struct {
		name string
		err  *ComponentError
		want string
	}{
		{"full", NewComponentError("trace", "close", io.EOF), "trace: close: EOF"},
		{"no action", NewComponentError("trace", "", io.EOF), "trace: EOF"},
		{"no error", NewComponentError("trace", "close", nil), "trace: close"},
		{"component only", NewComponentError("trace", "", nil), "trace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	assert.ErrorIs(t, NewComponentError("config", "load", io.EOF), io.EOF)
	assert.Nil(t, NewComponentError("config", "load", nil).orNil())
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	list.Add(nil)
	require.NoError(t, list.AsError())

	sentinel := errors.New("sentinel")
	list.Add(io.EOF)
	list.Add(sentinel)

	err := list.AsError()
	require.Error(t, err)
	assert.Equal(t, 2, list.Len())
	assert.Equal(t, "2 errors: first: EOF", err.Error())
	assert.ErrorIs(t, err, sentinel)
	assert.Len(t, list.Errors(), 2)
}

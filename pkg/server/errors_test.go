package server

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorf(t *testing.T) {
	orig := errors.New("node 42 not found")
	err := WrapErrorf(orig, ErrNotFound, "node %d is not on the road graph", 42)

	assert.ErrorIs(t, err, orig)
	assert.Equal(t, ErrNotFound, CodeOf(err))
	assert.Equal(t, "node 42 is not on the road graph: node 42 not found", err.Error())

	var serr *Error
	assert.True(t, errors.As(fmt.Errorf("handler: %w", err), &serr))
	assert.Equal(t, "node 42 is not on the road graph", serr.Message())
}

func TestNewErrorf(t *testing.T) {
	err := NewErrorf(ErrBadParamInput, "source and target are required")
	assert.Equal(t, ErrBadParamInput, CodeOf(err))
	assert.Equal(t, "source and target are required", err.Error())

	assert.Equal(t, ErrUnknown, CodeOf(errors.New("plain")))
}

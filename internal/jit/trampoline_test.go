package jit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samplerun/amxjit/internal/amx"
)

func TestCallPublicReturnsConstant(t *testing.T) {
	img := returnConstImage(t, 42)
	cache := NewCache(img)
	defer cache.Release()
	tr := NewTrampoline(img, cache)

	origStk := img.Stk
	val, aerr, err := tr.CallPublic(0, nil)
	require.NoError(t, err)
	assert.Equal(t, amx.ErrNone, aerr)
	assert.Equal(t, amx.Cell(42), val)
	assert.Equal(t, origStk, img.Stk, "stack pointer must be restored after the call")
}

func TestCallPublicBadIndex(t *testing.T) {
	img := returnConstImage(t, 42)
	cache := NewCache(img)
	defer cache.Release()
	tr := NewTrampoline(img, cache)

	_, _, err := tr.CallPublic(5, nil)
	assert.Error(t, err)
}

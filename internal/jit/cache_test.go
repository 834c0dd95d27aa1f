package jit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samplerun/amxjit/internal/amx"
	"github.com/samplerun/amxjit/internal/jit/verify"
)

// returnConstImage builds a one-function image: PROC; CONST.PRI value;
// RET, with a data section sized big enough to serve as the AMX stack
// for a call.
func returnConstImage(t *testing.T, value uint32) *amx.Image {
	t.Helper()
	code := encodeCells(
		uint32(amx.OpProc),
		uint32(amx.OpConstPri), value,
		uint32(amx.OpRet),
	)
	const stackSize = 4096
	data := make([]byte, len(code)+stackSize)
	copy(data, code)

	img := &amx.Image{
		Header: amx.Header{
			Cod: 0,
			Dat: amx.UCell(len(code)),
			Stp: amx.UCell(stackSize),
		},
		Data: data,
		Publics: []amx.TableEntry{
			{Address: 0},
		},
	}
	img.Stk = amx.Cell(img.Stp)
	img.Frm = img.Stk
	return img
}

func encodeCells(cells ...uint32) []byte {
	var out []byte
	for _, c := range cells {
		out = append(out, byte(c), byte(c>>8), byte(c>>16), byte(c>>24))
	}
	return out
}

func TestCacheGetIsIdempotent(t *testing.T) {
	img := returnConstImage(t, 42)
	cache := NewCache(img)
	defer cache.Release()

	fn1, err := cache.Get(0)
	require.NoError(t, err)
	fn2, err := cache.Get(0)
	require.NoError(t, err)

	assert.Same(t, fn1, fn2)

	hits, misses := cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestCompiledFunctionStructure(t *testing.T) {
	img := returnConstImage(t, 42)
	cache := NewCache(img)
	defer cache.Release()

	fn, err := cache.Get(0)
	require.NoError(t, err)
	require.NotEmpty(t, fn.Code)

	assert.NoError(t, verify.SinglePrologue(fn.Code))
	assert.NoError(t, verify.StackHygiene(fn.Code))
}

package amx

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cellBytes(v uint32) []byte {
	b := make([]byte, CellSize)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// buildCodeImage assembles an Image whose code section is exactly the
// given opcode cells, with an empty data section immediately after.
func buildCodeImage(t *testing.T, cells ...uint32) *Image {
	t.Helper()
	var code []byte
	for _, c := range cells {
		code = append(code, cellBytes(c)...)
	}
	return &Image{
		Header: Header{Cod: 0, Dat: UCell(len(code))},
		Data:   code,
	}
}

func TestDecoderSimpleSequence(t *testing.T) {
	img := buildCodeImage(t, uint32(OpConstPri), 42, uint32(OpRet))
	dec := NewDecoder(img, 0)

	inst, ok, err := dec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpConstPri, inst.Op)
	assert.Equal(t, Cell(42), inst.Operand)
	assert.Equal(t, UCell(0), inst.IP)

	inst, ok, err = dec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpRet, inst.Op)

	_, ok, err = dec.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecoderCaseTbl(t *testing.T) {
	img := buildCodeImage(t,
		uint32(OpCaseTbl), 2, // count
		999, // default_addr
		1, 100,
		2, 200,
	)
	dec := NewDecoder(img, 0)

	inst, ok, err := dec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpCaseTbl, inst.Op)
	assert.Equal(t, Cell(2), inst.Operand)

	// A CASETBL body is [count][default_addr][value,target]*count; the
	// decoder must have skipped all of it, landing back at end of code.
	_, ok, err = dec.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	entries := img.CaseTblEntries(UCell(CellSize), inst.Operand+1)
	require.Len(t, entries, 3)
	assert.Equal(t, UCell(999), entries[0].Target, "header pair's Target is the default address")
	assert.Equal(t, UCell(1), entries[1].Value)
	assert.Equal(t, UCell(100), entries[1].Target)
	assert.Equal(t, UCell(2), entries[2].Value)
	assert.Equal(t, UCell(200), entries[2].Target)
}

func TestDecoderTruncatedOperand(t *testing.T) {
	img := buildCodeImage(t, uint32(OpConstPri))
	dec := NewDecoder(img, 0)
	_, _, err := dec.Next()
	assert.Error(t, err)
}

func TestDecoderUnknownOpcode(t *testing.T) {
	img := buildCodeImage(t, 0xffff)
	dec := NewDecoder(img, 0)
	_, _, err := dec.Next()
	assert.Error(t, err)
}

func TestDecoderSeek(t *testing.T) {
	img := buildCodeImage(t, uint32(OpNop), uint32(OpRet))
	dec := NewDecoder(img, 0)
	dec.Seek(UCell(CellSize))
	inst, ok, err := dec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpRet, inst.Op)
}

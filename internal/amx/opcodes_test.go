package amx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownOpcode(t *testing.T) {
	info, ok := Lookup(OpLoadPri)
	require.True(t, ok)
	assert.Equal(t, "LOAD.PRI", info.Name)
	assert.Equal(t, StatusActive, info.Status)
}

func TestLookupObsoleteOpcode(t *testing.T) {
	info, ok := Lookup(OpLine)
	require.True(t, ok)
	assert.Equal(t, StatusObsolete, info.Status)
}

func TestLookupUnknownOpcode(t *testing.T) {
	_, ok := Lookup(Opcode(0xffff))
	assert.False(t, ok)
}

func TestCatalogCoversEveryRegisteredOpcode(t *testing.T) {
	cat := Catalog()
	assert.Len(t, cat, len(opcodeTable))
	names := make(map[string]bool, len(cat))
	for _, info := range cat {
		names[info.Name] = true
	}
	assert.True(t, names["LOAD.PRI"])
	assert.True(t, names["LINE"])
}

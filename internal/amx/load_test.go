package amx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildRawImage assembles a minimal, valid on-disk AMX image: a header
// followed by an empty code section, an empty data section, one public,
// one native, and their names in the trailing name table.
func buildRawImage(t *testing.T) []byte {
	t.Helper()

	const (
		hdrEnd     = headerSize
		codeStart  = hdrEnd
		codeLen    = 0
		dataStart  = codeStart + codeLen
		dataLen    = 0
		pubStart   = dataStart + dataLen
		pubLen     = tableEntrySize
		natStart   = pubStart + pubLen
		natLen     = tableEntrySize
		libStart   = natStart + natLen
		libLen     = 0
		pubvarStrt = libStart + libLen
		nameStart  = pubvarStrt
	)
	mainName := []byte("main\x00")
	nativeName := []byte("print\x00")
	total := nameStart + len(mainName) + len(nativeName)

	buf := make([]byte, total)
	put32 := func(off int, v uint32) {
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}

	put32(0, uint32(total))              // size
	buf[4] = byte(amxMagic & 0xff)        // magic lo
	buf[5] = byte(amxMagic >> 8)         // magic hi
	buf[6] = 8                           // file version
	buf[7] = 8                           // amx version
	put32(12, uint32(codeStart))         // cod
	put32(16, uint32(dataStart))         // dat
	put32(20, uint32(dataStart+dataLen)) // hea
	put32(24, uint32(dataStart+4096))    // stp
	put32(28, 0)                         // cip
	put32(32, uint32(pubStart))          // publics
	put32(36, uint32(natStart))          // natives
	put32(40, uint32(libStart))          // libraries
	put32(44, uint32(pubvarStrt))        // pubvars
	put32(48, uint32(pubvarStrt))        // tags
	put32(52, uint32(nameStart))         // nametable

	put32(pubStart, 0)                     // public address
	put32(pubStart+4, uint32(nameStart))   // public name offset -> "main"
	put32(natStart, 0)                     // native address (resolved later)
	nativeNameOff := nameStart + len(mainName)
	put32(natStart+4, uint32(nativeNameOff))

	copy(buf[nameStart:], mainName)
	copy(buf[nativeNameOff:], nativeName)

	return buf
}

func TestLoadImage(t *testing.T) {
	raw := buildRawImage(t)
	img, err := LoadImage(raw)
	require.NoError(t, err)

	require.Len(t, img.Publics, 1)
	require.Len(t, img.Natives, 1)
	assert.Equal(t, "print", img.NativeName(0))
	assert.Equal(t, img.Stp, UCell(img.Stk))
}

func TestLoadImageBadMagic(t *testing.T) {
	raw := buildRawImage(t)
	raw[4] = 0
	raw[5] = 0
	_, err := LoadImage(raw)
	assert.Error(t, err)
}

func TestImageName(t *testing.T) {
	data := append([]byte("gamemode"), 0)
	img := &Image{Header: Header{NameTable: 0}, Data: data}
	assert.Equal(t, "gamemode", img.Name())

	noName := &Image{Header: Header{NameTable: 0}, Data: nil}
	assert.Equal(t, "?", noName.Name())
}

func TestLoadImageTruncated(t *testing.T) {
	raw := buildRawImage(t)
	_, err := LoadImage(raw[:10])
	assert.Error(t, err)
}

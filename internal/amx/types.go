// Package amx implements the data model for the AMX abstract machine:
// its binary image layout, cell arithmetic, and the fixed set of opcodes
// a compiled script may contain.
package amx

import "encoding/binary"

// Cell is the AMX's native signed word. On the 32-bit target this
// package assumes throughout, it is always 4 bytes wide.
type Cell int32

// UCell is the unsigned counterpart, used for addresses and sizes.
type UCell uint32

const CellSize = 4

// FlagBrowse is AMX_FLAG_BROWSE from the AMX SDK header (not itself
// present in the retrieved original_source/ pack, so its numeric value
// is taken from the standard SDK amx.h): set on an image to make an
// AMX_FLAG_BROWSE-aware Exec return the opcode dispatch table instead
// of executing a public function, per plugin.cpp's amx_Exec_JIT.
const FlagBrowse uint16 = 0x4000

// Header mirrors the fixed-size AMX file header. Field order and widths
// follow the on-disk layout; all multi-byte fields are little-endian.
type Header struct {
	Size         UCell
	Magic        uint16
	FileVersion  uint8
	AmxVersion   uint8
	Flags        uint16
	DefSize      uint16
	Cod          UCell // offset of the code section
	Dat          UCell // offset of the data section
	Hea          UCell // initial heap address (end of data)
	Stp          UCell // stack top
	Cip          UCell // initial instruction pointer (main(), or 0)
	Publics      UCell
	Natives      UCell
	Libraries    UCell
	PubVars      UCell
	Tags         UCell
	NameTable    UCell
}

// TableEntry is one row of the publics/natives/libraries tables: a code
// or resolution address paired with the offset of its name in the name
// table.
type TableEntry struct {
	Address    UCell
	NameOffset UCell
}

// Image is a loaded AMX script: its raw bytes plus the header fields
// needed to translate code offsets into slice indices.
type Image struct {
	Header
	Data []byte // the full raw image, header included

	Publics   []TableEntry
	Natives   []TableEntry
	Libraries []TableEntry

	// Stk and Frm track the running data-stack/frame pointers as byte
	// offsets from the start of the data section. They are mutated by
	// the entry trampoline across calls.
	Stk Cell
	Frm Cell
}

// CodeSize returns the number of bytes in the code section.
func (img *Image) CodeSize() UCell {
	return img.Dat - img.Cod
}

// ReadCode reads one cell from the code section at the given byte offset
// from the start of the code section.
func (img *Image) ReadCode(offset UCell) Cell {
	base := img.Cod + offset
	return Cell(binary.LittleEndian.Uint32(img.Data[base : base+CellSize]))
}

// DataPtr returns a pointer to the byte at the given byte offset into the
// data section, for use as a base address by the translator when it
// folds the data base into an effective address at compile time.
func (img *Image) DataPtr(offset UCell) uintptr {
	return uintptrOf(img.Data[img.Dat+offset:])
}

// CodePtr mirrors DataPtr for the code section, used when resolving
// CASETBL/SWITCH jump tables that live inline in the code stream.
func (img *Image) CodePtr(offset UCell) uintptr {
	return uintptrOf(img.Data[img.Cod+offset:])
}

// WriteCell writes a cell value at the given byte offset into the data
// section, used by the entry trampoline to marshal call arguments onto
// the AMX stack before invoking compiled code.
func (img *Image) WriteCell(offset UCell, v Cell) {
	base := img.Dat + offset
	binary.LittleEndian.PutUint32(img.Data[base:base+CellSize], uint32(v))
}

// Name returns the script's own name, read from the NUL-terminated
// string the header's NameTable field points at. It returns "?" when
// no name table is present, the Go-native equivalent of amxname.h's
// GetAmxName falling back to a generic label when a script carries no
// embedded debug name (amxname.h declares GetAmxName but its
// implementation was not present in the retrieved sources, so this is
// reimplemented against this package's own name-table conventions
// rather than translated line for line).
func (img *Image) Name() string {
	off := img.NameTable
	if off >= UCell(len(img.Data)) {
		return "?"
	}
	end := off
	for end < UCell(len(img.Data)) && img.Data[end] != 0 {
		end++
	}
	if end == off {
		return "?"
	}
	return string(img.Data[off:end])
}

// NativeName returns the NUL-terminated name stored at the given
// native's NameOffset, used by the translator to recognize the handful
// of float natives it inlines instead of bridging out to a host
// function pointer.
func (img *Image) NativeName(idx int) string {
	if idx < 0 || idx >= len(img.Natives) {
		return ""
	}
	off := img.Natives[idx].NameOffset
	end := off
	for end < UCell(len(img.Data)) && img.Data[end] != 0 {
		end++
	}
	return string(img.Data[off:end])
}

package amx

import (
	"encoding/binary"
	"fmt"
)

// amxMagic is the fixed magic value at header offset 4 for the on-disk
// AMX file format this loader accepts.
const amxMagic = 0xf1e0

const headerSize = 56
const tableEntrySize = 2 * CellSize

// LoadImage parses a compiled AMX script's raw bytes into an Image ready
// for translation: header fields, then the publics/natives/libraries
// tables each header field brackets against the next table's starting
// offset. data is kept, not copied; the returned Image's Data slice
// aliases it directly, matching DataPtr/CodePtr's assumption that the
// backing array never moves for the Image's lifetime.
func LoadImage(data []byte) (*Image, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("amx: image too short for header (%d bytes)", len(data))
	}

	h := Header{
		Size:        UCell(binary.LittleEndian.Uint32(data[0:4])),
		Magic:       binary.LittleEndian.Uint16(data[4:6]),
		FileVersion: data[6],
		AmxVersion:  data[7],
		Flags:       binary.LittleEndian.Uint16(data[8:10]),
		DefSize:     binary.LittleEndian.Uint16(data[10:12]),
		Cod:         UCell(binary.LittleEndian.Uint32(data[12:16])),
		Dat:         UCell(binary.LittleEndian.Uint32(data[16:20])),
		Hea:         UCell(binary.LittleEndian.Uint32(data[20:24])),
		Stp:         UCell(binary.LittleEndian.Uint32(data[24:28])),
		Cip:         UCell(binary.LittleEndian.Uint32(data[28:32])),
		Publics:     UCell(binary.LittleEndian.Uint32(data[32:36])),
		Natives:     UCell(binary.LittleEndian.Uint32(data[36:40])),
		Libraries:   UCell(binary.LittleEndian.Uint32(data[40:44])),
		PubVars:     UCell(binary.LittleEndian.Uint32(data[44:48])),
		Tags:        UCell(binary.LittleEndian.Uint32(data[48:52])),
		NameTable:   UCell(binary.LittleEndian.Uint32(data[52:56])),
	}
	if h.Magic != amxMagic {
		return nil, fmt.Errorf("amx: bad magic %#x", h.Magic)
	}
	if UCell(len(data)) < h.Size {
		return nil, fmt.Errorf("amx: truncated image: header claims %d bytes, got %d", h.Size, len(data))
	}

	img := &Image{Header: h, Data: data}

	var err error
	if img.Publics, err = readTable(data, h.Publics, h.Natives); err != nil {
		return nil, fmt.Errorf("amx: publics table: %w", err)
	}
	if img.Natives, err = readTable(data, h.Natives, h.Libraries); err != nil {
		return nil, fmt.Errorf("amx: natives table: %w", err)
	}
	if img.Libraries, err = readTable(data, h.Libraries, h.PubVars); err != nil {
		return nil, fmt.Errorf("amx: libraries table: %w", err)
	}

	img.Stk = Cell(h.Stp)
	img.Frm = Cell(h.Stp)

	return img, nil
}

// readTable decodes the fixed-width (address, name-offset) rows between
// start and end, the layout every one of the publics/natives/libraries
// tables shares.
func readTable(data []byte, start, end UCell) ([]TableEntry, error) {
	if end < start || UCell(len(data)) < end {
		return nil, fmt.Errorf("table bounds [%d,%d) out of range", start, end)
	}
	n := (end - start) / tableEntrySize
	entries := make([]TableEntry, 0, n)
	for i := UCell(0); i < n; i++ {
		off := start + i*tableEntrySize
		entries = append(entries, TableEntry{
			Address:    UCell(binary.LittleEndian.Uint32(data[off : off+4])),
			NameOffset: UCell(binary.LittleEndian.Uint32(data[off+4 : off+8])),
		})
	}
	return entries, nil
}

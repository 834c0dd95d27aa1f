package amx

import "fmt"

// Instruction is one decoded opcode plus its immediate operand (if any),
// tagged with the code offset it was read from so the label table and
// error messages can refer back to it.
type Instruction struct {
	Op       Opcode
	Operand  Cell
	IP       UCell // byte offset from the start of the code section
	NumCells int   // 1 (opcode only) + number of operand cells consumed
}

// Decoder walks the code section of an Image one instruction at a time.
// It never looks past the code/data boundary; CASETBL's variable-length
// table is consumed inline by Next so callers never see its entries as
// separate instructions.
type Decoder struct {
	img    *Image
	cursor UCell
	size   UCell
}

// NewDecoder returns a Decoder positioned at start (a byte offset from
// the start of the code section).
func NewDecoder(img *Image, start UCell) *Decoder {
	return &Decoder{img: img, cursor: start, size: img.CodeSize()}
}

// Pos returns the current cursor position.
func (d *Decoder) Pos() UCell { return d.cursor }

// Seek repositions the cursor; the translator uses it to rewind to the
// next function's PROC when it stops there.
func (d *Decoder) Seek(pos UCell) { d.cursor = pos }

// Next decodes the instruction at the cursor and advances past it. It
// returns ok=false once the cursor reaches the end of the code section.
func (d *Decoder) Next() (Instruction, bool, error) {
	if d.cursor >= d.size {
		return Instruction{}, false, nil
	}
	ip := d.cursor
	op := Opcode(d.img.ReadCode(d.cursor))
	d.cursor += CellSize

	info, ok := Lookup(op)
	if !ok {
		return Instruction{}, false, fmt.Errorf("amx: unknown opcode %d at offset %d", op, ip)
	}
	if info.Status == StatusUnsupported {
		return Instruction{}, false, fmt.Errorf("amx: unsupported opcode %s at offset %d", info.Name, ip)
	}

	inst := Instruction{Op: op, IP: ip, NumCells: 1}

	switch {
	case op == OpCaseTbl:
		// The operand gives the number of value/address records. It is
		// followed by one default-address cell and then n (value, target)
		// pairs; all of it is consumed here rather than decoded as
		// separate instructions.
		if d.cursor >= d.size {
			return Instruction{}, false, fmt.Errorf("amx: truncated CASETBL at offset %d", ip)
		}
		n := d.img.ReadCode(d.cursor)
		inst.Operand = n
		d.cursor += CellSize
		rest := (1 + UCell(n)*2) * CellSize
		if d.cursor+rest > d.size {
			return Instruction{}, false, fmt.Errorf("amx: truncated CASETBL body at offset %d", ip)
		}
		d.cursor += rest
		inst.NumCells = 3 + int(n)*2
	case info.Operands == 1:
		if d.cursor >= d.size {
			return Instruction{}, false, fmt.Errorf("amx: truncated operand for %s at offset %d", info.Name, ip)
		}
		inst.Operand = d.img.ReadCode(d.cursor)
		d.cursor += CellSize
		inst.NumCells = 2
	case info.Operands > 1:
		// Multi-operand opcodes (the obsolete FILE/LINE/SYMBOL/SRANGE debug
		// records) store their last operand in Operand; the translator never
		// inspects the earlier ones since these opcodes are rejected before
		// any operand read matters.
		for i := 0; i < info.Operands; i++ {
			if d.cursor >= d.size {
				return Instruction{}, false, fmt.Errorf("amx: truncated operand for %s at offset %d", info.Name, ip)
			}
			inst.Operand = d.img.ReadCode(d.cursor)
			d.cursor += CellSize
		}
		inst.NumCells = 1 + info.Operands
	}

	return inst, true, nil
}

// CaseTblEntries reads n consecutive (value, target) pairs starting at
// addr, a byte offset into the code section. Passing the byte offset
// of the CASETBL's count cell and n+1 turns the (count, default_addr)
// header into a synthetic first pair, letting callers treat the
// default target uniformly as entries[0].
func (img *Image) CaseTblEntries(addr UCell, n Cell) []struct{ Value, Target UCell } {
	entries := make([]struct{ Value, Target UCell }, n)
	for i := 0; i < int(n); i++ {
		off := addr + UCell(i)*2*CellSize
		entries[i].Value = UCell(img.ReadCode(off))
		entries[i].Target = UCell(img.ReadCode(off + CellSize))
	}
	return entries
}

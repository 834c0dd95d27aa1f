package jit

import (
	"fmt"

	"github.com/samplerun/amxjit/internal/amx"
	"github.com/samplerun/amxjit/internal/jitcall"
)

// Trampoline is the sole way host code enters JIT-compiled AMX code. It
// owns marshalling call arguments onto the AMX data stack and the
// stack/frame values jitcall.Call needs to seed STK/FRM, translating
// jitcall's report of how the call ended back into an amx.Error.
type Trampoline struct {
	img   *amx.Image
	cache *Cache
}

func NewTrampoline(img *amx.Image, cache *Cache) *Trampoline {
	return &Trampoline{img: img, cache: cache}
}

// CallPublic invokes the public function at index with args pushed last
// to first, the pawn calling convention: the last cell pushed is the
// argument byte count, sitting immediately below the return address
// jitcall.Call's own call sequence supplies. The AMX stack pointer is
// restored to its pre-call position once CallPublic returns regardless
// of how the call ended, since neither a HALT/BOUNDS abort nor RET/RETN
// (which compile identically) pops the pushed arguments.
func (tr *Trampoline) CallPublic(index int, args []amx.Cell) (amx.Cell, amx.Error, error) {
	if index < 0 || index >= len(tr.img.Publics) {
		return 0, amx.ErrNone, fmt.Errorf("jit: public index %d out of range", index)
	}
	entryAddr := tr.img.Publics[index].Address

	origStk := tr.img.Stk
	defer func() { tr.img.Stk = origStk }()

	for i := len(args) - 1; i >= 0; i-- {
		tr.img.Stk -= amx.CellSize
		tr.img.WriteCell(amx.UCell(tr.img.Stk), args[i])
	}
	tr.img.Stk -= amx.CellSize
	tr.img.WriteCell(amx.UCell(tr.img.Stk), amx.Cell(len(args))*amx.CellSize)
	tr.img.Frm = tr.img.Stk

	fn, err := tr.cache.Get(entryAddr)
	if err != nil {
		return 0, amx.ErrNone, err
	}

	stackTop := tr.img.DataPtr(amx.UCell(tr.img.Stk))
	framePtr := tr.img.DataPtr(amx.UCell(tr.img.Frm))

	errCode := jitcall.Call(fn.entry, stackTop, framePtr, &tr.cache.unwind)
	if errCode != 0 {
		return 0, amx.Error(errCode), nil
	}
	return amx.Cell(tr.cache.unwind.RetVal), amx.ErrNone, nil
}

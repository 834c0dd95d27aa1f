package jit

import (
	"fmt"

	asm "github.com/twitchyliquid64/golang-asm"
	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/x86"
)

// assembler wraps a golang-asm builder targeting 32-bit x86 with the
// small vocabulary of instruction shapes the translator actually needs.
// Every AMX opcode family's compile method goes through these helpers
// rather than constructing obj.Prog values inline, the same division of
// responsibility the teacher draws between its per-operation compile
// methods and addInstruction/newProg.
type assembler struct {
	builder *asm.Builder
	labels  *labelTable
}

func newAssembler() (*assembler, error) {
	b, err := asm.NewBuilder("386", 256)
	if err != nil {
		return nil, fmt.Errorf("jit: failed to create assembly builder: %w", err)
	}
	return &assembler{builder: b, labels: newLabelTable()}, nil
}

func (a *assembler) newProg() *obj.Prog { return a.builder.NewProg() }

func (a *assembler) add(p *obj.Prog) { a.builder.AddInstruction(p) }

func (a *assembler) assemble() []byte { return a.builder.Assemble() }

// regReg emits `as src, dst` where both operands are registers.
func (a *assembler) regReg(as obj.As, src, dst int16) *obj.Prog {
	p := a.newProg()
	p.As = as
	p.From.Type = obj.TYPE_REG
	p.From.Reg = src
	p.To.Type = obj.TYPE_REG
	p.To.Reg = dst
	a.add(p)
	return p
}

// constReg emits `as $value, dst`.
func (a *assembler) constReg(as obj.As, value int64, dst int16) *obj.Prog {
	p := a.newProg()
	p.As = as
	p.From.Type = obj.TYPE_CONST
	p.From.Offset = value
	p.To.Type = obj.TYPE_REG
	p.To.Reg = dst
	a.add(p)
	return p
}

// memReg emits `as offset(base), dst`.
func (a *assembler) memReg(as obj.As, base int16, offset int64, dst int16) *obj.Prog {
	p := a.newProg()
	p.As = as
	p.From.Type = obj.TYPE_MEM
	p.From.Reg = base
	p.From.Offset = offset
	p.To.Type = obj.TYPE_REG
	p.To.Reg = dst
	a.add(p)
	return p
}

// regMem emits `as src, offset(base)`.
func (a *assembler) regMem(as obj.As, src int16, base int16, offset int64) *obj.Prog {
	p := a.newProg()
	p.As = as
	p.From.Type = obj.TYPE_REG
	p.From.Reg = src
	p.To.Type = obj.TYPE_MEM
	p.To.Reg = base
	p.To.Offset = offset
	a.add(p)
	return p
}

// constMem emits `as $value, offset(base)`.
func (a *assembler) constMem(as obj.As, value int64, base int16, offset int64) *obj.Prog {
	p := a.newProg()
	p.As = as
	p.From.Type = obj.TYPE_CONST
	p.From.Offset = value
	p.To.Type = obj.TYPE_MEM
	p.To.Reg = base
	p.To.Offset = offset
	a.add(p)
	return p
}

// indexedMemReg emits `as offset(base)(index*scale), dst`, used for
// array element addressing (IDXADDR family) where the index is only
// known at runtime.
func (a *assembler) indexedMemReg(as obj.As, base int16, offset int64, index int16, scale int16, dst int16) *obj.Prog {
	p := a.newProg()
	p.As = as
	p.From.Type = obj.TYPE_MEM
	p.From.Reg = base
	p.From.Offset = offset
	p.From.Index = index
	p.From.Scale = scale
	p.To.Type = obj.TYPE_REG
	p.To.Reg = dst
	a.add(p)
	return p
}

// oneReg emits a unary instruction like `as dst` (NEG, NOT, INC, DEC).
func (a *assembler) oneReg(as obj.As, reg int16) *obj.Prog {
	p := a.newProg()
	p.As = as
	p.To.Type = obj.TYPE_REG
	p.To.Reg = reg
	a.add(p)
	return p
}

// memAdjust emits a unary instruction (INC/DEC) targeting a memory
// operand, `as offset(base)`.
func (a *assembler) memAdjust(as obj.As, base int16, offset int64) *obj.Prog {
	p := a.newProg()
	p.As = as
	p.To.Type = obj.TYPE_MEM
	p.To.Reg = base
	p.To.Offset = offset
	a.add(p)
	return p
}

func (a *assembler) nop() *obj.Prog {
	p := a.newProg()
	p.As = obj.ANOP
	a.add(p)
	return p
}

// jmp emits an unconditional jump; the caller resolves its target via
// the label table.
func (a *assembler) jmp() *obj.Prog {
	p := a.newProg()
	p.As = obj.AJMP
	p.To.Type = obj.TYPE_BRANCH
	a.add(p)
	return p
}

// jcc emits a conditional jump using the given condition mnemonic
// (x86.AJEQ, x86.AJNE, x86.AJLT, ...).
func (a *assembler) jcc(as obj.As) *obj.Prog {
	p := a.newProg()
	p.As = as
	p.To.Type = obj.TYPE_BRANCH
	a.add(p)
	return p
}

func (a *assembler) call(target int16) *obj.Prog {
	p := a.newProg()
	p.As = obj.ACALL
	p.To.Type = obj.TYPE_REG
	p.To.Reg = target
	a.add(p)
	return p
}

// jmpReg emits an indirect jump through a register.
func (a *assembler) jmpReg(reg int16) *obj.Prog {
	p := a.newProg()
	p.As = obj.AJMP
	p.To.Type = obj.TYPE_REG
	p.To.Reg = reg
	a.add(p)
	return p
}

// callMem emits an indirect call through the pointer stored at
// offset(base), used for CALL translation: the target function may
// still be compiling (direct or mutual recursion), so the call reads
// through a stable memory slot rather than a baked-in constant address.
func (a *assembler) callMem(base int16, offset int64) *obj.Prog {
	p := a.newProg()
	p.As = obj.ACALL
	p.To.Type = obj.TYPE_MEM
	p.To.Reg = base
	p.To.Offset = offset
	a.add(p)
	return p
}

// jmpMem emits an indirect jump through the pointer stored at
// offset(base), the memory-operand counterpart to jmpReg.
func (a *assembler) jmpMem(base int16, offset int64) *obj.Prog {
	p := a.newProg()
	p.As = obj.AJMP
	p.To.Type = obj.TYPE_MEM
	p.To.Reg = base
	p.To.Offset = offset
	a.add(p)
	return p
}

func (a *assembler) ret() *obj.Prog {
	p := a.newProg()
	p.As = obj.ARET
	a.add(p)
	return p
}

func (a *assembler) push(reg int16) *obj.Prog {
	p := a.newProg()
	p.As = x86.APUSHL
	p.From.Type = obj.TYPE_REG
	p.From.Reg = reg
	a.add(p)
	return p
}

func (a *assembler) pushConst(value int64) *obj.Prog {
	p := a.newProg()
	p.As = x86.APUSHL
	p.From.Type = obj.TYPE_CONST
	p.From.Offset = value
	a.add(p)
	return p
}

func (a *assembler) pop(reg int16) *obj.Prog {
	p := a.newProg()
	p.As = x86.APOPL
	p.To.Type = obj.TYPE_REG
	p.To.Reg = reg
	a.add(p)
	return p
}

// bare emits a zero-operand instruction, used by the x87 constant-load
// and stack-arithmetic mnemonics (FLDLN2, FYL2X, FABS, FSQRT, ...) that
// always operate on the top of the FPU stack implicitly.
func (a *assembler) bare(as obj.As) *obj.Prog {
	p := a.newProg()
	p.As = as
	a.add(p)
	return p
}

func (a *assembler) lea(base int16, offset int64, dst int16) *obj.Prog {
	p := a.newProg()
	p.As = x86.ALEAL
	p.From.Type = obj.TYPE_MEM
	p.From.Reg = base
	p.From.Offset = offset
	p.To.Type = obj.TYPE_REG
	p.To.Reg = dst
	a.add(p)
	return p
}

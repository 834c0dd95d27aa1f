package jit

import (
	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// compileMemOp implements MOVS/CMPS/FILL, the block memory opcodes. Each
// is translated as a small cell-at-a-time loop rather than a call out to
// a host memmove/memcmp/memset, since the loop body is short enough that
// a call's overhead (and ABI marshalling) would dwarf it; the jump
// targets involved are purely local to the loop and resolved directly
// via SetTarget rather than through the function-wide label table, which
// only tracks AMX-address-keyed branches.
func (t *funcTranslator) compileMemOp(inst amx.Instruction) error {
	switch inst.Op {
	case amx.OpFill:
		return t.compileFill(inst)
	case amx.OpMovs:
		return t.compileMovs(inst)
	case amx.OpCmps:
		return t.compileCmps(inst)
	}
	return nil
}

// compileFill fills the operand's byte count, addressed at PRI, with the
// cell value held in ALT. The resolved reading of the byte-vs-cell
// ambiguity treats the operand as a byte count; cells are written a
// whole word at a time, which is what filling "with a cell value" means
// regardless of that reading.
func (t *funcTranslator) compileFill(inst amx.Instruction) error {
	t.asm.regReg(x86.AMOVL, regPRI, regScratch1) // dest cursor
	t.asm.constReg(x86.AMOVL, int64(inst.Operand), x86.REG_SI)

	top := t.asm.nop()
	check := t.asm.constReg(x86.ACMPL, 0, x86.REG_SI)
	_ = check
	doneJmp := t.asm.jcc(x86.AJLE)

	t.asm.regMem(x86.AMOVL, regALT, regScratch1, 0)
	t.asm.constReg(x86.AADDL, amx.CellSize, regScratch1)
	t.asm.constReg(x86.ASUBL, amx.CellSize, x86.REG_SI)
	backJmp := t.asm.jmp()
	backJmp.To.SetTarget(top)

	end := t.asm.nop()
	doneJmp.To.SetTarget(end)
	return nil
}

// compileMovs copies the operand's byte count from the address in ALT
// to the address in PRI, one cell at a time.
func (t *funcTranslator) compileMovs(inst amx.Instruction) error {
	t.asm.regReg(x86.AMOVL, regALT, regScratch1) // src cursor
	t.asm.regReg(x86.AMOVL, regPRI, regScratch2)  // dst cursor
	t.asm.constReg(x86.AMOVL, int64(inst.Operand), x86.REG_SI)

	top := t.asm.nop()
	t.asm.constReg(x86.ACMPL, 0, x86.REG_SI)
	doneJmp := t.asm.jcc(x86.AJLE)

	t.asm.memReg(x86.AMOVL, regScratch1, 0, x86.REG_DI)
	t.asm.regMem(x86.AMOVL, x86.REG_DI, regScratch2, 0)
	t.asm.constReg(x86.AADDL, amx.CellSize, regScratch1)
	t.asm.constReg(x86.AADDL, amx.CellSize, regScratch2)
	t.asm.constReg(x86.ASUBL, amx.CellSize, x86.REG_SI)
	backJmp := t.asm.jmp()
	backJmp.To.SetTarget(top)

	end := t.asm.nop()
	doneJmp.To.SetTarget(end)
	return nil
}

// compileCmps compares the operand's byte count of memory at ALT and PRI
// a cell at a time, leaving 0 in PRI if every cell matched and 1 if any
// differed (a boolean, not a three-way ordering, matching how this
// opcode's result is used by the compiler-emitted code that follows it:
// always a subsequent JZER/JNZ, never an ordering comparison).
func (t *funcTranslator) compileCmps(inst amx.Instruction) error {
	t.asm.regReg(x86.AMOVL, regALT, regScratch1)
	t.asm.regReg(x86.AMOVL, regPRI, regScratch2)
	t.asm.constReg(x86.AMOVL, int64(inst.Operand), x86.REG_SI)
	t.asm.constReg(x86.AMOVL, 0, x86.REG_DI) // accumulated result

	top := t.asm.nop()
	t.asm.constReg(x86.ACMPL, 0, x86.REG_SI)
	doneJmp := t.asm.jcc(x86.AJLE)

	t.asm.memReg(x86.AMOVL, regScratch1, 0, regPRI)
	t.asm.memReg(x86.ACMPL, regScratch2, 0, regPRI)
	mismatchJmp := t.asm.jcc(x86.AJNE)
	t.asm.constReg(x86.AADDL, amx.CellSize, regScratch1)
	t.asm.constReg(x86.AADDL, amx.CellSize, regScratch2)
	t.asm.constReg(x86.ASUBL, amx.CellSize, x86.REG_SI)
	backJmp := t.asm.jmp()
	backJmp.To.SetTarget(top)

	mismatch := t.asm.constReg(x86.AMOVL, 1, x86.REG_DI)
	mismatchJmp.To.SetTarget(mismatch)

	end := t.asm.nop()
	doneJmp.To.SetTarget(end)
	t.asm.regReg(x86.AMOVL, x86.REG_DI, regPRI)
	return nil
}

package jit

import (
	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// compileArith implements the arithmetic and bitwise opcode families.
// Two-operand forms (ADD, SUB, AND, OR, XOR, the S{L,R}* shifts, the
// multiply/divide pairs) combine PRI and ALT and leave the result in
// PRI, exactly mirroring the source instruction set's PRI/ALT
// convention; the .C immediate forms and the INC/DEC family operate on
// a single register or memory location.
func (t *funcTranslator) compileArith(inst amx.Instruction) error {
	switch inst.Op {
	case amx.OpAdd:
		t.asm.regReg(x86.AADDL, regALT, regPRI)
	case amx.OpSub:
		t.asm.regReg(x86.ASUBL, regALT, regPRI)
	case amx.OpSubAlt:
		// PRI := ALT - PRI
		t.asm.regReg(x86.ASUBL, regPRI, regALT)
		t.asm.regReg(x86.AMOVL, regALT, regPRI)
	case amx.OpAddC:
		t.asm.constReg(x86.AADDL, int64(inst.Operand), regPRI)
	case amx.OpAnd:
		t.asm.regReg(x86.AANDL, regALT, regPRI)
	case amx.OpOr:
		t.asm.regReg(x86.AORL, regALT, regPRI)
	case amx.OpXor:
		t.asm.regReg(x86.AXORL, regALT, regPRI)
	case amx.OpNot:
		t.asm.constReg(x86.ACMPL, 0, regPRI)
		t.asm.constReg(x86.AMOVL, 0, regPRI)
		t.asm.oneReg(x86.ASETEQ, regPRI)
	case amx.OpNeg:
		t.asm.oneReg(x86.ANEGL, regPRI)
	case amx.OpInvert:
		t.asm.oneReg(x86.ANOTL, regPRI)

	case amx.OpShL:
		// ALT is bound to CX, so a variable shift by ALT is already in
		// the one register x86 shift-by-register requires (CL); no
		// separate move into a counting register is needed.
		t.asm.regReg(x86.ASHLL, regALT, regPRI)
	case amx.OpShR:
		t.asm.regReg(x86.ASHRL, regALT, regPRI)
	case amx.OpSShR:
		t.asm.regReg(x86.ASARL, regALT, regPRI)
	case amx.OpShLCPri:
		t.asm.constReg(x86.ASHLL, int64(inst.Operand), regPRI)
	case amx.OpShLCAlt:
		t.asm.constReg(x86.ASHLL, int64(inst.Operand), regALT)
	case amx.OpShRCPri:
		t.asm.constReg(x86.ASHRL, int64(inst.Operand), regPRI)
	case amx.OpShRCAlt:
		// Resolved reading of the SHR.C.ALT ambiguity: emit a logical
		// right shift, not the left shift a naive transcription of the
		// suspected source bug would produce.
		t.asm.constReg(x86.ASHRL, int64(inst.Operand), regALT)

	case amx.OpSMul, amx.OpUMul:
		t.asm.regReg(x86.AIMULL, regALT, regPRI)
	case amx.OpSMulC:
		t.asm.constReg(x86.AIMULL, int64(inst.Operand), regPRI)
	case amx.OpSDiv:
		t.checkDivisorNonZero()
		t.asm.oneReg(x86.ACDQ, regPRI)
		t.asm.oneReg(x86.AIDIVL, regALT)
		t.asm.regReg(x86.AMOVL, x86.REG_DX, regALT) // remainder into ALT
	case amx.OpSDivAlt:
		t.asm.regReg(x86.AMOVL, regPRI, regScratch1)
		t.asm.regReg(x86.AMOVL, regALT, regPRI)
		t.asm.regReg(x86.AMOVL, regScratch1, regALT)
		t.checkDivisorNonZero()
		t.asm.oneReg(x86.ACDQ, regPRI)
		t.asm.oneReg(x86.AIDIVL, regALT)
		t.asm.regReg(x86.AMOVL, x86.REG_DX, regALT)
	case amx.OpUDiv:
		t.checkDivisorNonZero()
		t.asm.constReg(x86.AMOVL, 0, x86.REG_DX)
		t.asm.oneReg(x86.ADIVL, regALT)
		t.asm.regReg(x86.AMOVL, x86.REG_DX, regALT)
	case amx.OpUDivAlt:
		t.asm.regReg(x86.AMOVL, regPRI, regScratch1)
		t.asm.regReg(x86.AMOVL, regALT, regPRI)
		t.asm.regReg(x86.AMOVL, regScratch1, regALT)
		t.checkDivisorNonZero()
		t.asm.constReg(x86.AMOVL, 0, x86.REG_DX)
		t.asm.oneReg(x86.ADIVL, regALT)
		t.asm.regReg(x86.AMOVL, x86.REG_DX, regALT)

	case amx.OpIncPri:
		t.asm.oneReg(x86.AINCL, regPRI)
	case amx.OpIncAlt:
		t.asm.oneReg(x86.AINCL, regALT)
	case amx.OpInc:
		t.asm.constReg(x86.AMOVL, t.dataAddr(amx.UCell(inst.Operand)), regScratch1)
		t.asm.memAdjust(x86.AINCL, regScratch1, 0)
	case amx.OpIncS:
		t.asm.memAdjust(x86.AINCL, regFRM, int64(inst.Operand))
	case amx.OpIncI:
		t.asm.memAdjust(x86.AINCL, regPRI, 0)

	case amx.OpDecPri:
		t.asm.oneReg(x86.ADECL, regPRI)
	case amx.OpDecAlt:
		t.asm.oneReg(x86.ADECL, regALT)
	case amx.OpDec:
		t.asm.constReg(x86.AMOVL, t.dataAddr(amx.UCell(inst.Operand)), regScratch1)
		t.asm.memAdjust(x86.ADECL, regScratch1, 0)
	case amx.OpDecS:
		t.asm.memAdjust(x86.ADECL, regFRM, int64(inst.Operand))
	case amx.OpDecI:
		t.asm.memAdjust(x86.ADECL, regPRI, 0)
	}
	return nil
}

// compileAlign implements ALIGN.PRI/ALIGN.ALT: on a little-endian target,
// referencing fewer than a full cell's worth of bytes at an address reads
// the wrong end of the cell, so the compiler emits this xor to flip the
// register to the correct sub-cell byte offset. It is only a true no-op
// when the operand equals the cell size.
func (t *funcTranslator) compileAlign(inst amx.Instruction) error {
	reg := int16(regPRI)
	if inst.Op == amx.OpAlignAlt {
		reg = regALT
	}
	t.asm.constReg(x86.AXORL, int64(amx.CellSize)-int64(inst.Operand), reg)
	return nil
}

// compileSignExtend implements SIGN.PRI/SIGN.ALT: SIGN.PRI sign-extends
// AL into PRI; SIGN.ALT sign-extends BL (regALTByte), not CL, into ALT.
func (t *funcTranslator) compileSignExtend(inst amx.Instruction) error {
	if inst.Op == amx.OpSignPri {
		t.asm.regReg(x86.AMOVBLSX, regPRIByte, regPRI)
		return nil
	}
	t.asm.regReg(x86.AMOVBLSX, regALTByte, regALT)
	return nil
}

// checkDivisorNonZero aborts with ErrDivide if the divisor about to be
// used by IDIVL/DIVL (always ALT, by this point in each division
// opcode's expansion) is zero, since an x86 divide-by-zero raises a CPU
// exception no Go code downstream could ever catch.
func (t *funcTranslator) checkDivisorNonZero() {
	t.asm.constReg(x86.ACMPL, 0, regALT)
	ok := t.asm.jcc(x86.AJNE)
	t.emitUnwind(amx.ErrDivide)
	end := t.asm.nop()
	ok.To.SetTarget(end)
}

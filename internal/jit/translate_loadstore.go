package jit

import (
	"fmt"

	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// Address values that flow through PRI/ALT or live inside data cells
// (array bases, reference-parameter targets, results of ADDR.PRI) are
// native pointers into the data section's mmapped backing array, not
// AMX-relative cell offsets: the data base is folded into every address
// computation at the point the address is first produced (ADDR, or an
// absolute LOAD/STOR whose operand names a fixed data offset), so
// nothing downstream ever needs to re-add it.

func destReg(op amx.Opcode) int16 {
	switch op {
	case amx.OpLoadAlt, amx.OpLoadSAlt, amx.OpStorAlt, amx.OpStorSAlt,
		amx.OpLRefAlt, amx.OpLRefSAlt, amx.OpSRefAlt, amx.OpSRefSAlt,
		amx.OpConstAlt, amx.OpAddrAlt, amx.OpZeroAlt:
		return regALT
	default:
		return regPRI
	}
}

// compileLoad implements LOAD.PRI/LOAD.ALT: reg := data[offset], offset
// being a fixed, compile-time-known data-section cell offset.
func (t *funcTranslator) compileLoad(inst amx.Instruction) error {
	reg := destReg(inst.Op)
	t.asm.constReg(x86.AMOVL, t.dataAddr(amx.UCell(inst.Operand)), regScratch1)
	t.asm.memReg(x86.AMOVL, regScratch1, 0, reg)
	return nil
}

// compileLoadS implements LOAD.S.PRI/LOAD.S.ALT: reg := frame[offset],
// offset relative to FRM (positive for parameters, negative for locals,
// per the standard AMX call-frame layout).
func (t *funcTranslator) compileLoadS(inst amx.Instruction) error {
	reg := destReg(inst.Op)
	t.asm.memReg(x86.AMOVL, regFRM, int64(inst.Operand), reg)
	return nil
}

// compileLoadI implements LOAD.I: PRI := *(cell*)PRI.
func (t *funcTranslator) compileLoadI() error {
	t.asm.memReg(x86.AMOVL, regPRI, 0, regPRI)
	return nil
}

// compileStor implements STOR.PRI/STOR.ALT: data[offset] := reg.
func (t *funcTranslator) compileStor(inst amx.Instruction) error {
	reg := destReg(inst.Op)
	t.asm.constReg(x86.AMOVL, t.dataAddr(amx.UCell(inst.Operand)), regScratch1)
	t.asm.regMem(x86.AMOVL, reg, regScratch1, 0)
	return nil
}

func (t *funcTranslator) compileStorS(inst amx.Instruction) error {
	reg := destReg(inst.Op)
	t.asm.regMem(x86.AMOVL, reg, regFRM, int64(inst.Operand))
	return nil
}

// compileStorI implements STOR.I: *(cell*)ALT := PRI.
func (t *funcTranslator) compileStorI() error {
	t.asm.regMem(x86.AMOVL, regPRI, regALT, 0)
	return nil
}

// compileRef implements the {L,S}REF{,.S}.{PRI,ALT} family: an
// indirection through a cell that itself holds a reference (a pointer
// parameter or upvalue slot). LREF loads through it, SREF stores
// through it; the .S variants read the reference cell from the frame
// instead of a fixed data offset.
func (t *funcTranslator) compileRef(inst amx.Instruction) error {
	reg := destReg(inst.Op)
	store := inst.Op == amx.OpSRefPri || inst.Op == amx.OpSRefAlt ||
		inst.Op == amx.OpSRefSPri || inst.Op == amx.OpSRefSAlt
	fromFrame := inst.Op == amx.OpLRefSPri || inst.Op == amx.OpLRefSAlt ||
		inst.Op == amx.OpSRefSPri || inst.Op == amx.OpSRefSAlt

	if fromFrame {
		t.asm.memReg(x86.AMOVL, regFRM, int64(inst.Operand), regScratch1)
	} else {
		t.asm.constReg(x86.AMOVL, t.dataAddr(amx.UCell(inst.Operand)), regScratch2)
		t.asm.memReg(x86.AMOVL, regScratch2, 0, regScratch1)
	}

	if store {
		t.asm.regMem(x86.AMOVL, reg, regScratch1, 0)
	} else {
		t.asm.memReg(x86.AMOVL, regScratch1, 0, reg)
	}
	return nil
}

// compileLodbI/compileStrbI implement LODB.I/STRB.I: a narrow (1/2/4
// byte) load or store through the address in PRI (LODB.I) or ALT
// (STRB.I). Per the resolved reading of the width ambiguity, these are
// mutually exclusive by width: exactly one case fires, never a
// fallthrough across widths.
func (t *funcTranslator) compileLodbI(inst amx.Instruction) error {
	switch inst.Operand {
	case 1:
		t.asm.memReg(x86.AMOVBLZX, regPRI, 0, regPRI)
	case 2:
		t.asm.memReg(x86.AMOVWLZX, regPRI, 0, regPRI)
	case 4:
		t.asm.memReg(x86.AMOVL, regPRI, 0, regPRI)
	default:
		return fmt.Errorf("LODB.I: unsupported width %d", inst.Operand)
	}
	return nil
}

func (t *funcTranslator) compileStrbI(inst amx.Instruction) error {
	switch inst.Operand {
	case 1:
		t.asm.regMem(x86.AMOVB, regPRI, regALT, 0)
	case 2:
		t.asm.regMem(x86.AMOVW, regPRI, regALT, 0)
	case 4:
		t.asm.regMem(x86.AMOVL, regPRI, regALT, 0)
	default:
		return fmt.Errorf("STRB.I: unsupported width %d", inst.Operand)
	}
	return nil
}

// compileLidx implements LIDX/LIDX.B: PRI := *(ALT + PRI*cellsize)
// (LIDX.B shifts PRI left by the operand instead of the fixed cell-size
// shift, for element sizes other than 4 bytes).
func (t *funcTranslator) compileLidx(inst amx.Instruction) error {
	if inst.Op == amx.OpLIdxB {
		t.asm.constReg(x86.ASHLL, int64(inst.Operand), regPRI)
	} else {
		t.asm.constReg(x86.ASHLL, 2, regPRI)
	}
	t.asm.regReg(x86.AADDL, regALT, regPRI)
	t.asm.memReg(x86.AMOVL, regPRI, 0, regPRI)
	return nil
}

// compileIdxAddr implements IDXADDR/IDXADDR.B: PRI := ALT + PRI*cellsize,
// the address form of LIDX (used ahead of a following LOAD.I/STOR.I
// rather than dereferencing immediately).
func (t *funcTranslator) compileIdxAddr(inst amx.Instruction) error {
	if inst.Op == amx.OpIdxAddrB {
		t.asm.constReg(x86.ASHLL, int64(inst.Operand), regPRI)
	} else {
		t.asm.constReg(x86.ASHLL, 2, regPRI)
	}
	t.asm.regReg(x86.AADDL, regALT, regPRI)
	return nil
}

// compileConst implements CONST.PRI/CONST.ALT: reg := immediate.
func (t *funcTranslator) compileConst(inst amx.Instruction) error {
	t.asm.constReg(x86.AMOVL, int64(inst.Operand), destReg(inst.Op))
	return nil
}

// compileAddr implements ADDR.PRI/ADDR.ALT: reg := FRM + operand, the
// native address of a local variable or parameter slot, ready for use
// by a following LOAD.I/STOR.I/LIDX.
func (t *funcTranslator) compileAddr(inst amx.Instruction) error {
	reg := destReg(inst.Op)
	t.asm.lea(regFRM, int64(inst.Operand), reg)
	return nil
}

// compileMove implements MOVE.PRI/MOVE.ALT: copy ALT into PRI or PRI
// into ALT.
func (t *funcTranslator) compileMove(inst amx.Instruction) error {
	if inst.Op == amx.OpMovePri {
		t.asm.regReg(x86.AMOVL, regALT, regPRI)
	} else {
		t.asm.regReg(x86.AMOVL, regPRI, regALT)
	}
	return nil
}

func (t *funcTranslator) compileXchg() error {
	t.asm.regReg(x86.AMOVL, regPRI, regScratch1)
	t.asm.regReg(x86.AMOVL, regALT, regPRI)
	t.asm.regReg(x86.AMOVL, regScratch1, regALT)
	return nil
}

// compileZero implements ZERO.PRI/ZERO.ALT/ZERO/ZERO.S.
func (t *funcTranslator) compileZero(inst amx.Instruction) error {
	switch inst.Op {
	case amx.OpZeroPri:
		t.asm.constReg(x86.AMOVL, 0, regPRI)
	case amx.OpZeroAlt:
		t.asm.constReg(x86.AMOVL, 0, regALT)
	case amx.OpZero:
		t.asm.constReg(x86.AMOVL, t.dataAddr(amx.UCell(inst.Operand)), regScratch1)
		t.asm.constMem(x86.AMOVL, 0, regScratch1, 0)
	case amx.OpZeroS:
		t.asm.constMem(x86.AMOVL, 0, regFRM, int64(inst.Operand))
	}
	return nil
}

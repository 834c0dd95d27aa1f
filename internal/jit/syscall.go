package jit

import (
	"fmt"

	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// floatKind identifies which of the small set of floating-point natives
// a SYSREQ.C call is invoking, so compileSysReq can inline them
// as a handful of x87 instructions instead of paying for a full
// AMX*/params-pointer native call bridge on every arithmetic operation
// a floating-point-heavy script performs.
type floatKind int

const (
	floatConv floatKind = iota // float(value): integer cell -> IEEE754 float32 cell
	floatAbs
	floatSqrt
	floatAdd
	floatSub
	floatMul
	floatDiv
	floatLog
)

var floatNatives = map[string]floatKind{
	"float":       floatConv,
	"floatabs":    floatAbs,
	"floatsqroot": floatSqrt,
	"floatadd":    floatAdd,
	"floatsub":    floatSub,
	"floatmul":    floatMul,
	"floatdiv":    floatDiv,
	"floatlog":    floatLog,
}

// floatNativeAt reports whether inst is a SYSREQ that resolves, by
// native name, to one of floatNatives. Only SYSREQ.C carries a static
// native-table index; SYSREQ.D addresses a native by raw code address
// and SYSREQ.PRI is unsupported, so neither gives the translator a name
// to inline against.
func floatNativeAt(t *funcTranslator, inst amx.Instruction) (floatKind, bool) {
	switch inst.Op {
	case amx.OpSysReqC:
	default:
		return 0, false
	}
	name := t.img.NativeName(int(inst.Operand))
	kind, ok := floatNatives[name]
	return kind, ok
}

// compileInlineFloatNative emits the x87 sequence for kind, reading its
// argument cells directly out of the AMX stack via the already-captured
// paramsPtr (regScratch1) rather than bridging out to a host function
// pointer. Argument cells sit above the pushed byte count in the usual
// pawn native calling convention: paramsPtr+4 is the first (and, for a
// unary native, only) argument, paramsPtr+8 the second.
func (t *funcTranslator) compileInlineFloatNative(kind floatKind) error {
	arg1 := int64(amx.CellSize)
	arg2 := int64(2 * amx.CellSize)

	switch kind {
	case floatConv:
		t.asm.memReg(x86.AFMOVL, regScratch1, arg1, x86.REG_F0) // FILD
	case floatAbs:
		t.asm.memReg(x86.AFMOVF, regScratch1, arg1, x86.REG_F0) // FLD
		t.asm.bare(x86.AFABS)
	case floatSqrt:
		t.asm.memReg(x86.AFMOVF, regScratch1, arg1, x86.REG_F0)
		t.asm.bare(x86.AFSQRT)
	case floatAdd:
		t.asm.memReg(x86.AFMOVF, regScratch1, arg1, x86.REG_F0)
		t.asm.memReg(x86.AFMOVF, regScratch1, arg2, x86.REG_F0)
		t.asm.regReg(x86.AFADDDP, x86.REG_F0, x86.REG_F1)
	case floatSub:
		t.asm.memReg(x86.AFMOVF, regScratch1, arg1, x86.REG_F0) // ST(1) := a
		t.asm.memReg(x86.AFMOVF, regScratch1, arg2, x86.REG_F0) // ST(0) := b
		t.asm.regReg(x86.AFSUBRDP, x86.REG_F0, x86.REG_F1)      // ST(1) := ST(1)-ST(0) = a-b, pop
	case floatMul:
		t.asm.memReg(x86.AFMOVF, regScratch1, arg1, x86.REG_F0)
		t.asm.memReg(x86.AFMOVF, regScratch1, arg2, x86.REG_F0)
		t.asm.regReg(x86.AFMULDP, x86.REG_F0, x86.REG_F1)
	case floatDiv:
		t.asm.memReg(x86.AFMOVF, regScratch1, arg1, x86.REG_F0) // ST(1) := a
		t.asm.memReg(x86.AFMOVF, regScratch1, arg2, x86.REG_F0) // ST(0) := b
		t.asm.regReg(x86.AFDIVRDP, x86.REG_F0, x86.REG_F1)      // ST(1) := a/b, pop
	case floatLog:
		// log_base(value) = ln(value) / ln(base), both logs by way of
		// FYL2X's y*log2(x) with y = ln(2) to convert base-2 to natural.
		t.asm.bare(x86.AFLDLN2)
		t.asm.memReg(x86.AFMOVF, regScratch1, arg1, x86.REG_F0)
		t.asm.bare(x86.AFYL2X) // ST(0) := ln(value)
		t.asm.bare(x86.AFLDLN2)
		t.asm.memReg(x86.AFMOVF, regScratch1, arg2, x86.REG_F0)
		t.asm.bare(x86.AFYL2X)                             // ST(0) := ln(base), ST(1) := ln(value)
		t.asm.regReg(x86.AFDIVRDP, x86.REG_F0, x86.REG_F1) // ST(1) := ln(value)/ln(base), pop
	default:
		return fmt.Errorf("jit: unhandled inline float native kind %d", kind)
	}

	t.asm.constReg(x86.AMOVL, int64(t.cache.floatScratchAddr()), regScratch2)
	t.asm.regMem(x86.AFMOVFP, x86.REG_F0, regScratch2, 0) // FSTP, pops
	t.asm.memReg(x86.AMOVL, regScratch2, 0, regPRI)
	return nil
}

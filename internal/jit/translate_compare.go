package jit

import (
	"fmt"

	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

func setccFor(op amx.Opcode) (obj.As, bool) {
	switch op {
	case amx.OpEq, amx.OpEqCPri, amx.OpEqCAlt:
		return x86.ASETEQ, false
	case amx.OpNeq:
		return x86.ASETNE, false
	case amx.OpLess:
		return x86.ASETCS, false // unsigned <
	case amx.OpLeq:
		return x86.ASETLS, false // unsigned <=
	case amx.OpGrtr:
		return x86.ASETHI, false // unsigned >
	case amx.OpGeq:
		return x86.ASETCC, false // unsigned >=
	case amx.OpSLess:
		return x86.ASETLT, true
	case amx.OpSLeq:
		return x86.ASETLE, true
	case amx.OpSGrtr:
		return x86.ASETGT, true
	case amx.OpSGeq:
		return x86.ASETGE, true
	}
	return 0, false
}

// compileCompare implements EQ/NEQ/LESS/.../SGEQ and the EQ.C.PRI/
// EQ.C.ALT immediate-compare forms. Every variant leaves a boolean (0 or
// 1) in PRI; the signed vs. unsigned distinction between LESS/SLESS and
// friends is carried entirely in which SETcc mnemonic is chosen, not in
// how the CMP itself is emitted.
func (t *funcTranslator) compileCompare(inst amx.Instruction) error {
	setcc, _ := setccFor(inst.Op)
	if setcc == 0 {
		return fmt.Errorf("unhandled comparison opcode %d", inst.Op)
	}

	switch inst.Op {
	case amx.OpEqCPri:
		t.asm.constReg(x86.ACMPL, int64(inst.Operand), regPRI)
	case amx.OpEqCAlt:
		t.asm.constReg(x86.ACMPL, int64(inst.Operand), regALT)
	default:
		t.asm.regReg(x86.ACMPL, regALT, regPRI)
	}

	t.asm.constReg(x86.AMOVL, 0, regPRI)
	t.asm.oneReg(setcc, regPRI)
	return nil
}

package jit

import (
	"fmt"

	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// Control-register indices for LCTRL/SCTRL, matching the reference
// instruction set's numbering.
const (
	ctrlCod = 0
	ctrlDat = 1
	ctrlHea = 2
	ctrlStp = 3
	ctrlStk = 4
	ctrlFrm = 5
	ctrlCip = 6
)

// compileCtrl implements LCTRL/SCTRL. COD/DAT/STP are fixed for the
// lifetime of a compiled function and are folded in as constants; STK
// and FRM are already live in dedicated registers. HEA and CIP are not
// tracked by the translator: LCTRL of either fails translation with an
// error. SCTRL writes only STK and FRM; any other index fails
// translation with an error.
func (t *funcTranslator) compileCtrl(inst amx.Instruction) error {
	if inst.Op == amx.OpLctrl {
		switch inst.Operand {
		case ctrlCod:
			t.asm.constReg(x86.AMOVL, int64(t.img.CodePtr(0)), regPRI)
		case ctrlDat:
			t.asm.constReg(x86.AMOVL, int64(t.img.DataPtr(0)), regPRI)
		case ctrlStp:
			t.asm.constReg(x86.AMOVL, int64(t.img.Stp), regPRI)
		case ctrlStk:
			t.asm.regReg(x86.AMOVL, regSTK, regPRI)
		case ctrlFrm:
			t.asm.regReg(x86.AMOVL, regFRM, regPRI)
		case ctrlHea, ctrlCip:
			return fmt.Errorf("LCTRL %d (HEA/CIP) requires host-tracked state not modeled by this translator", inst.Operand)
		default:
			return fmt.Errorf("LCTRL: unknown control register %d", inst.Operand)
		}
		return nil
	}

	switch inst.Operand {
	case ctrlStk:
		t.asm.regReg(x86.AMOVL, regPRI, regSTK)
	case ctrlFrm:
		t.asm.regReg(x86.AMOVL, regPRI, regFRM)
	default:
		return fmt.Errorf("SCTRL: control register %d is not writable", inst.Operand)
	}
	return nil
}

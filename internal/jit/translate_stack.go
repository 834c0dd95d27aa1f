package jit

import (
	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// frameBaseSlotOffset is unused by the current frame layout; ADDR.PRI/ALT
// compute native addresses directly off FRM via lea, so no separate
// data-relative base needs to be carried per frame.
const frameBaseSlotOffset = 0

// compileProc implements PROC, the function prologue: push the caller's
// frame pointer and establish a new one. This is exactly x86's own
// `push ebp; mov ebp, esp` because FRM and STK are bound to EBP/ESP, so
// the AMX call frame and the native call frame are the same frame.
func (t *funcTranslator) compileProc() error {
	t.asm.push(regFRM)
	t.asm.regReg(x86.AMOVL, regSTK, regFRM)
	return nil
}

// doLeave restores STK/FRM to the caller's frame: mov esp, ebp; pop ebp.
func (t *funcTranslator) doLeave() {
	t.asm.regReg(x86.AMOVL, regFRM, regSTK)
	t.asm.pop(regFRM)
}

// compileRet implements RET: restore the caller's frame, then return
// through the native return address the entry CALL pushed automatically.
func (t *funcTranslator) compileRet() error {
	t.doLeave()
	t.asm.ret()
	return nil
}

// compileRetn implements RETN. It is identical to RET: the argument
// byte count the caller pushed before its CALL is not popped here by
// the callee. It's the CALL site's job (see compileCall) to discard
// that cell once the call returns, so RET and RETN only differ in the
// AMX interpreter's own dispatch, not in the code this compiler emits.
func (t *funcTranslator) compileRetn() error {
	t.doLeave()
	t.asm.ret()
	return nil
}

// compilePush implements the whole PUSH family: PUSH.PRI/PUSH.ALT push a
// register; PUSH.C pushes an immediate; PUSH/PUSH.S push a data/frame
// cell's value; PUSH.ADR pushes a frame-relative address.
func (t *funcTranslator) compilePush(inst amx.Instruction) error {
	switch inst.Op {
	case amx.OpPushPri:
		t.asm.push(regPRI)
	case amx.OpPushAlt:
		t.asm.push(regALT)
	case amx.OpPushC:
		t.asm.pushConst(int64(inst.Operand))
	case amx.OpPush:
		t.asm.constReg(x86.AMOVL, t.dataAddr(amx.UCell(inst.Operand)), regScratch1)
		t.asm.memReg(x86.AMOVL, regScratch1, 0, regScratch1)
		t.asm.push(regScratch1)
	case amx.OpPushS:
		t.asm.memReg(x86.AMOVL, regFRM, int64(inst.Operand), regScratch1)
		t.asm.push(regScratch1)
	case amx.OpPushAddr:
		t.asm.lea(regFRM, int64(inst.Operand), regScratch1)
		t.asm.push(regScratch1)
	}
	return nil
}

func (t *funcTranslator) compilePop(inst amx.Instruction) error {
	if inst.Op == amx.OpPopPri {
		t.asm.pop(regPRI)
	} else {
		t.asm.pop(regALT)
	}
	return nil
}

// compileStackAdjust implements STACK/HEAP (adjust STK by a signed
// amount, leaving the old value in ALT) — used by the compiler-emitted
// prologue code that reserves local-variable space — and STACKADDR-style
// ADDR-of-stack forms are covered by compileAddr/compilePush above.
func (t *funcTranslator) compileStackAdjust(inst amx.Instruction) error {
	t.asm.regReg(x86.AMOVL, regSTK, regALT)
	t.asm.constReg(x86.AADDL, int64(inst.Operand), regSTK)
	return nil
}

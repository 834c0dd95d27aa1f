package jit

import (
	"fmt"

	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// compileSysReq implements the whole native-call bridge (C7):
// SYSREQ.PRI/SYSREQ.C/SYSREQ.D. Every native function has the signature
// `cell Native(AMX *amx, cell *params)`; params points at the argument
// cells already sitting on the AMX stack (pushed by preceding PUSH
// instructions, with params[0] conventionally the argument byte count),
// so the bridge only needs to capture the current stack pointer and the
// Image's own address, push them cdecl-style, and call through.
func (t *funcTranslator) compileSysReq(inst amx.Instruction) error {
	var target uintptr

	switch inst.Op {
	case amx.OpSysReqD:
		target = uintptr(inst.Operand)
	case amx.OpSysReqC:
		idx := int(inst.Operand)
		if idx < 0 || idx >= len(t.img.Natives) {
			return fmt.Errorf("SYSREQ.C: native index %d out of range", idx)
		}
		target = uintptr(t.img.Natives[idx].Address)
	case amx.OpSysReqPri:
		// Unsupported: no emitted effect. The reference plugin resolved
		// this against a runtime AMX_FLAG_BROWSE table this JIT never
		// builds, so it is decoded but left as a no-op here rather than
		// attempted as a dynamic call through an address nothing set up.
		return nil
	default:
		return fmt.Errorf("unhandled SYSREQ opcode %d", inst.Op)
	}

	t.asm.regReg(x86.AMOVL, regSTK, regScratch1) // paramsPtr, captured before pushing anything

	if kind, ok := floatNativeAt(t, inst); ok {
		return t.compileInlineFloatNative(kind)
	}

	t.asm.push(regScratch1)
	t.asm.pushConst(int64(t.img.Addr()))

	t.asm.constReg(x86.AMOVL, int64(target), regScratch2)
	t.asm.call(regScratch2)

	t.asm.constReg(x86.AADDL, 2*amx.CellSize, regSTK) // cdecl callee-doesn't-clean-up
	// The call's result already landed in EAX, which is regPRI.
	return nil
}

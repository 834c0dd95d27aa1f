package jit

import (
	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// compileCall implements CALL: resolve the callee through the code
// cache and emit an indirect call through the (possibly still-compiling)
// callee's entry-field address, then pop the argument-byte-count cell
// the caller convention leaves on top of stack. The argument list and
// that byte count have already been pushed by preceding PUSH-family
// instructions; since RET/RETN never clean it up themselves (see
// compileRetn), CALL does it here at the call site: `add esp, [esp]`
// adds the byte count to STK, then `add esp, 4` drops the now-topmost
// byte-count cell itself.
func (t *funcTranslator) compileCall(inst amx.Instruction) error {
	target := amx.UCell(inst.Operand)
	fn, err := t.cache.reserve(target)
	if err != nil {
		return err
	}
	t.asm.constReg(x86.AMOVL, int64(fieldAddr(fn)), regScratch1)
	t.asm.callMem(regScratch1, 0)
	t.asm.memReg(x86.AADDL, regSTK, 0, regSTK)
	t.asm.constReg(x86.AADDL, 4, regSTK)
	return nil
}

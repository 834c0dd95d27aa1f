package jit

import (
	"unsafe"

	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// emitUnwind writes code into the shared jitcall.UnwindSlots and jumps
// back to the trampoline's saved call site, abandoning whatever native
// call frames are currently active. Compiled code cannot propagate a Go
// panic through those frames (there is no Go stack there to unwind, only
// bare x86 ones), so this is the JIT's own minimal setjmp/longjmp:
// jitcall.Call populates SavedSP/SavedRA before ever entering compiled
// code, and reads ErrCode back out once control returns to it.
func (t *funcTranslator) emitUnwind(code amx.Error) {
	u := &t.cache.unwind
	errCodeAddr := uintptr(unsafe.Pointer(&u.ErrCode))
	savedSPAddr := uintptr(unsafe.Pointer(&u.SavedSP))
	savedRAAddr := uintptr(unsafe.Pointer(&u.SavedRA))

	t.asm.constReg(x86.AMOVL, int64(errCodeAddr), regScratch1)
	t.asm.constMem(x86.AMOVL, int64(code), regScratch1, 0)
	t.asm.constReg(x86.AMOVL, int64(savedSPAddr), regScratch1)
	t.asm.memReg(x86.AMOVL, regScratch1, 0, regSTK)
	t.asm.constReg(x86.AMOVL, int64(savedRAAddr), regScratch1)
	t.asm.jmpMem(regScratch1, 0)
}

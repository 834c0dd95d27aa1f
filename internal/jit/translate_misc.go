package jit

import (
	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// compileHalt implements HALT: unconditionally abort back to the entry
// trampoline. The operand is the AMX error/exit code the script itself
// is signalling (0 for a normal return through HALT rather than RET).
func (t *funcTranslator) compileHalt(inst amx.Instruction) error {
	t.emitUnwind(amx.Error(inst.Operand))
	return nil
}

// compileBounds implements BOUNDS: operand is the highest valid
// (unsigned) index; abort with ErrBounds if PRI exceeds it.
func (t *funcTranslator) compileBounds(inst amx.Instruction) error {
	t.asm.constReg(x86.ACMPL, int64(inst.Operand), regPRI)
	ok := t.asm.jcc(x86.AJLS) // unsigned <=
	t.emitUnwind(amx.ErrBounds)
	end := t.asm.nop()
	ok.To.SetTarget(end)
	return nil
}

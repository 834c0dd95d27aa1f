package jit

import (
	"fmt"

	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// compileBranch implements JUMP and the whole Jxx conditional-branch
// family. JZER/JNZ test PRI against zero; every other Jxx compares PRI
// against ALT directly -- AMX's conditional branches are self-contained,
// unlike a flags-then-branch ISA, so each one both compares and jumps.
func (t *funcTranslator) compileBranch(inst amx.Instruction) error {
	target := amx.UCell(inst.Operand)

	if inst.Op == amx.OpJump {
		jmp := t.asm.jmp()
		t.asm.labels.resolve(target, tagBranch, jmp)
		return nil
	}

	as, testsZero := jccFor(inst.Op)
	if as == 0 {
		return fmt.Errorf("unhandled branch opcode %d", inst.Op)
	}

	if testsZero {
		t.asm.constReg(x86.ACMPL, 0, regPRI)
	} else {
		t.asm.regReg(x86.ACMPL, regALT, regPRI)
	}

	jmp := t.asm.jcc(as)
	t.asm.labels.resolve(target, tagBranch, jmp)
	return nil
}

package jit

import (
	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// compileSwitch implements SWITCH: operand is the code address of a
// CASETBL immediately describing the case values. On disk the table is
// a (count, default_addr) header followed by count (value, target)
// records; reading it as n+1 (value, target) pairs starting at the
// count cell turns the header into a synthetic first entry whose
// Target is the default address, so entries[0] is the default and
// entries[1:] are the real cases, satisfying invariant P5
// (switch/CASETBL completeness -- every possible PRI value reaches
// some target).
func (t *funcTranslator) compileSwitch(inst amx.Instruction) error {
	tableAddr := amx.UCell(inst.Operand)
	n := t.img.ReadCode(tableAddr + amx.CellSize)
	entries := t.img.CaseTblEntries(tableAddr+amx.CellSize, n+1)

	if len(entries) == 0 {
		return nil
	}
	defaultTarget := entries[0].Target

	for _, e := range entries[1:] {
		t.asm.constReg(x86.ACMPL, int64(int32(e.Value)), regPRI)
		jmp := t.asm.jcc(x86.AJEQ)
		t.asm.labels.resolve(e.Target, tagBranch, jmp)
	}

	jmp := t.asm.jmp()
	t.asm.labels.resolve(defaultTarget, tagBranch, jmp)
	return nil
}

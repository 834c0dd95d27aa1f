// Package verify decodes a compiled function's native buffer back into
// x86 instructions and checks structural invariants the translator is
// supposed to uphold, without re-deriving them by hand from the
// assembler's own bookkeeping. It exists for tests, never for
// production code paths.
package verify

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// SinglePrologue asserts P2: a compiled function contains exactly one
// `push ebp; mov ebp, esp` sequence, at its very first instruction. A
// second occurrence anywhere in the buffer would mean the translator
// let a later PROC's prologue leak into this function's code, straddling
// a function boundary it should have stopped at instead.
func SinglePrologue(code []byte) error {
	insts, err := decodeAll(code)
	if err != nil {
		return err
	}
	if len(insts) < 2 {
		return fmt.Errorf("verify: function too short to contain a prologue")
	}
	if !isPushEBP(insts[0]) || !isMovEBPESP(insts[1]) {
		return fmt.Errorf("verify: function does not open with push ebp; mov ebp,esp")
	}
	for i := 2; i < len(insts)-1; i++ {
		if isPushEBP(insts[i]) && isMovEBPESP(insts[i+1]) {
			return fmt.Errorf("verify: second prologue found at instruction %d, function straddles a PROC boundary", i)
		}
	}
	return nil
}

// StackHygiene asserts P4's static half: every return path (a bare RET;
// RET and RETN both compile to the same epilogue) is immediately preceded by
// `mov esp, ebp; pop ebp`, so ESP is left exactly where it was on entry
// regardless of which path reached the return.
func StackHygiene(code []byte) error {
	insts, err := decodeAll(code)
	if err != nil {
		return err
	}
	for i, inst := range insts {
		if inst.Op != x86asm.RET {
			continue
		}
		if i < 2 || !isMovESPEBP(insts[i-2]) || !isPopEBP(insts[i-1]) {
			return fmt.Errorf("verify: RET at instruction %d not preceded by mov esp,ebp; pop ebp", i)
		}
	}
	return nil
}

func decodeAll(code []byte) ([]x86asm.Inst, error) {
	var insts []x86asm.Inst
	for off := 0; off < len(code); {
		inst, err := x86asm.Decode(code[off:], 32)
		if err != nil {
			return nil, fmt.Errorf("verify: decoding at offset %d: %w", off, err)
		}
		insts = append(insts, inst)
		off += inst.Len
	}
	return insts, nil
}

func isPushEBP(inst x86asm.Inst) bool {
	return inst.Op == x86asm.PUSH && regArg(inst, 0) == x86asm.EBP
}

func isPopEBP(inst x86asm.Inst) bool {
	return inst.Op == x86asm.POP && regArg(inst, 0) == x86asm.EBP
}

func isMovEBPESP(inst x86asm.Inst) bool {
	return inst.Op == x86asm.MOV && regArg(inst, 0) == x86asm.EBP && regArg(inst, 1) == x86asm.ESP
}

func isMovESPEBP(inst x86asm.Inst) bool {
	return inst.Op == x86asm.MOV && regArg(inst, 0) == x86asm.ESP && regArg(inst, 1) == x86asm.EBP
}

func regArg(inst x86asm.Inst, i int) x86asm.Reg {
	if i >= len(inst.Args) || inst.Args[i] == nil {
		return 0
	}
	r, _ := inst.Args[i].(x86asm.Reg)
	return r
}

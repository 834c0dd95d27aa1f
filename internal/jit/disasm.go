package jit

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// DisassembleFunction decodes a compiled function's native buffer back
// into 32-bit x86 mnemonics, one line per instruction. It exists for the
// amxjitdebug trace and for internal/jit/verify's structural
// self-checks; it is never on any hot path.
func DisassembleFunction(fn *CompiledFunction) ([]string, error) {
	return disassemble(fn.Code)
}

func disassemble(code []byte) ([]string, error) {
	var lines []string
	for off := 0; off < len(code); {
		inst, err := x86asm.Decode(code[off:], 32)
		if err != nil {
			return lines, fmt.Errorf("jit: disassembling at offset %d: %w", off, err)
		}
		lines = append(lines, fmt.Sprintf("%04x  %s", off, x86asm.GNUSyntax(inst, uint64(off), nil)))
		off += inst.Len
	}
	return lines, nil
}

// dumpFunction renders a compiled function as a hex dump followed by its
// disassembly, the amxjitdebug analogue of the teacher's
// hex.EncodeToString(code) print in engine.go.
func dumpFunction(entry uint32, code []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "function %d: %d bytes\n", entry, len(code))
	fmt.Fprintf(&b, "  %s\n", hex.EncodeToString(code))
	lines, err := disassemble(code)
	if err != nil {
		fmt.Fprintf(&b, "  <disassembly failed: %v>\n", err)
		return b.String()
	}
	for _, l := range lines {
		fmt.Fprintf(&b, "  %s\n", l)
	}
	return b.String()
}

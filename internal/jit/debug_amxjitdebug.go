//go:build amxjitdebug

package jit

import (
	"fmt"
	"os"
)

// traceCompile prints a hex dump and disassembly of every function as it
// finishes compiling, the direct analogue of the teacher's
// hex.EncodeToString(code) debug print in engine.go, gated the same way
// wazero gates its debug_asm assembler behind a build tag.
func traceCompile(entry uint32, code []byte) {
	fmt.Fprint(os.Stderr, dumpFunction(entry, code))
}

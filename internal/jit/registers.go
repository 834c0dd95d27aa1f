package jit

import "github.com/twitchyliquid64/golang-asm/obj/x86"

// Register binding for the AMX virtual machine, fixed for the lifetime
// of the compiler: no allocator, no spilling, because AMX itself only
// ever exposes two general-purpose registers (PRI, ALT) plus the frame
// and stack pointers. Scratch registers are used transiently within the
// emission of a single opcode and never carry a value across opcode
// boundaries.
const (
	regPRI      = x86.REG_AX // primary register
	regALT      = x86.REG_CX // secondary/alternate register
	regFRM      = x86.REG_BP // frame pointer, one AMX call frame per native one
	regSTK      = x86.REG_SP // AMX stack pointer, one AMX cell per native word
	regScratch1 = x86.REG_DX
	regScratch2 = x86.REG_BX
	regDataBase = x86.REG_SI // declared but unused: data addresses are folded in as constants
	regImgBase  = x86.REG_DI // declared but unused: the Image pointer is pushed as a constant

	// regPRIByte/regALTByte are SIGN.PRI/SIGN.ALT's movsx source
	// operands. regPRIByte is PRI's low byte; regALTByte is BL, not
	// ALT's own low byte (CL).
	regPRIByte = x86.REG_AL
	regALTByte = x86.REG_BL
)

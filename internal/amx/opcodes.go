package amx

// OpStatus classifies an opcode for translation purposes. Obsolete
// opcodes were used by older compilers and are decoded but never
// emitted by the reference toolchain still targeted here; unsupported
// opcodes make the decoder return an error, which fails translation.
type OpStatus uint8

const (
	StatusActive OpStatus = iota
	StatusObsolete
	StatusUnsupported
)

// Opcode identifies one AMX instruction. Values match the reference
// instruction numbering so a raw opcode cell can be used as a table
// index without translation.
type Opcode uint16

const (
	OpNone Opcode = iota
	OpLoadPri
	OpLoadAlt
	OpLoadSPri
	OpLoadSAlt
	OpLRefPri
	OpLRefAlt
	OpLRefSPri
	OpLRefSAlt
	OpLoadIPri
	OpLodbI
	OpConstPri
	OpConstAlt
	OpAddrPri
	OpAddrAlt
	OpStorPri
	OpStorAlt
	OpStorSPri
	OpStorSAlt
	OpSRefPri
	OpSRefAlt
	OpSRefSPri
	OpSRefSAlt
	OpStorI
	OpStrbI
	OpLidx
	OpLIdxB
	OpIdxAddr
	OpIdxAddrB
	OpAlign
	OpAlignAlt
	OpLctrl
	OpSctrl
	OpMovePri
	OpMoveAlt
	OpXchg
	OpPushPri
	OpPushAlt
	OpPushR
	OpPushC
	OpPush
	OpPushS
	OpPopPri
	OpPopAlt
	OpStack
	OpHeap
	OpProc
	OpRet
	OpRetn
	OpCall
	OpCallPri
	OpJump
	OpJRel
	OpJZer
	OpJNZ
	OpJEq
	OpJNeq
	OpJLess
	OpJLeq
	OpJGrtr
	OpJGeq
	OpJSLess
	OpJSLeq
	OpJSGrtr
	OpJSGeq
	OpShL
	OpShR
	OpSShR
	OpShLCPri
	OpShLCAlt
	OpShRCPri
	OpShRCAlt
	OpSMul
	OpSDiv
	OpSDivAlt
	OpUMul
	OpUDiv
	OpUDivAlt
	OpAdd
	OpSub
	OpSubAlt
	OpAnd
	OpOr
	OpXor
	OpNot
	OpNeg
	OpInvert
	OpAddC
	OpSMulC
	OpZeroPri
	OpZeroAlt
	OpZero
	OpZeroS
	OpSignPri
	OpSignAlt
	OpEq
	OpNeq
	OpLess
	OpLeq
	OpGrtr
	OpGeq
	OpSLess
	OpSLeq
	OpSGrtr
	OpSGeq
	OpEqCPri
	OpEqCAlt
	OpIncPri
	OpIncAlt
	OpInc
	OpIncS
	OpIncI
	OpDecPri
	OpDecAlt
	OpDec
	OpDecS
	OpDecI
	OpMovs
	OpCmps
	OpFill
	OpHalt
	OpBounds
	OpSysReqPri
	OpSysReqC
	OpFileOp
	OpLine
	OpSymBol
	OpSRange
	OpJumpPri
	OpSwitch
	OpCaseTbl
	OpSwap_Pri
	OpSwap_Alt
	OpPushAddr
	OpNop
	OpSysReqD
	OpSymTag
	OpBreak
	OpNumOpcodes
)

type OpcodeInfo struct {
	Name string
	// Operands is the number of trailing cells consumed as immediate
	// operands: 0 or 1 for every opcode except the obsolete FILE/LINE/
	// SYMBOL/SRANGE debug records (2) and CASETBL (variable-length, decoded
	// specially by the decoder rather than through this field).
	Operands int
	Status   OpStatus
}

var opcodeTable = map[Opcode]OpcodeInfo{
	OpLoadPri:  {"LOAD.PRI", 1, StatusActive},
	OpLoadAlt:  {"LOAD.ALT", 1, StatusActive},
	OpLoadSPri: {"LOAD.S.PRI", 1, StatusActive},
	OpLoadSAlt: {"LOAD.S.ALT", 1, StatusActive},
	OpLRefPri:  {"LREF.PRI", 1, StatusActive},
	OpLRefAlt:  {"LREF.ALT", 1, StatusActive},
	OpLRefSPri: {"LREF.S.PRI", 1, StatusActive},
	OpLRefSAlt: {"LREF.S.ALT", 1, StatusActive},
	OpLoadIPri: {"LOAD.I", 0, StatusActive},
	OpLodbI:    {"LODB.I", 1, StatusActive},
	OpConstPri: {"CONST.PRI", 1, StatusActive},
	OpConstAlt: {"CONST.ALT", 1, StatusActive},
	OpAddrPri:  {"ADDR.PRI", 1, StatusActive},
	OpAddrAlt:  {"ADDR.ALT", 1, StatusActive},
	OpStorPri:  {"STOR.PRI", 1, StatusActive},
	OpStorAlt:  {"STOR.ALT", 1, StatusActive},
	OpStorSPri: {"STOR.S.PRI", 1, StatusActive},
	OpStorSAlt: {"STOR.S.ALT", 1, StatusActive},
	OpSRefPri:  {"SREF.PRI", 1, StatusActive},
	OpSRefAlt:  {"SREF.ALT", 1, StatusActive},
	OpSRefSPri: {"SREF.S.PRI", 1, StatusActive},
	OpSRefSAlt: {"SREF.S.ALT", 1, StatusActive},
	OpStorI:    {"STOR.I", 0, StatusActive},
	OpStrbI:    {"STRB.I", 1, StatusActive},
	OpLidx:     {"LIDX", 0, StatusActive},
	OpLIdxB:    {"LIDX.B", 1, StatusActive},
	OpIdxAddr:  {"IDXADDR", 0, StatusActive},
	OpIdxAddrB: {"IDXADDR.B", 1, StatusActive},
	OpAlign:    {"ALIGN.PRI", 1, StatusActive},
	OpAlignAlt: {"ALIGN.ALT", 1, StatusActive},
	OpLctrl:    {"LCTRL", 1, StatusActive},
	OpSctrl:    {"SCTRL", 1, StatusActive},
	OpMovePri:  {"MOVE.PRI", 0, StatusActive},
	OpMoveAlt:  {"MOVE.ALT", 0, StatusActive},
	OpXchg:     {"XCHG", 0, StatusActive},
	OpPushPri:  {"PUSH.PRI", 0, StatusActive},
	OpPushAlt:  {"PUSH.ALT", 0, StatusActive},
	OpPushR:    {"PUSH.R", 1, StatusObsolete},
	OpPushC:    {"PUSH.C", 1, StatusActive},
	OpPush:     {"PUSH", 1, StatusActive},
	OpPushS:    {"PUSH.S", 1, StatusActive},
	OpPopPri:   {"POP.PRI", 0, StatusActive},
	OpPopAlt:   {"POP.ALT", 0, StatusActive},
	OpStack:    {"STACK", 1, StatusActive},
	OpHeap:     {"HEAP", 1, StatusActive},
	OpProc:     {"PROC", 0, StatusActive},
	OpRet:      {"RET", 0, StatusActive},
	OpRetn:     {"RETN", 0, StatusActive},
	OpCall:     {"CALL", 1, StatusActive},
	OpCallPri:  {"CALL.PRI", 0, StatusObsolete},
	OpJump:     {"JUMP", 1, StatusActive},
	OpJRel:     {"JREL", 1, StatusObsolete},
	OpJZer:     {"JZER", 1, StatusActive},
	OpJNZ:      {"JNZ", 1, StatusActive},
	OpJEq:      {"JEQ", 1, StatusActive},
	OpJNeq:     {"JNEQ", 1, StatusActive},
	OpJLess:    {"JLESS", 1, StatusActive},
	OpJLeq:     {"JLEQ", 1, StatusActive},
	OpJGrtr:    {"JGRTR", 1, StatusActive},
	OpJGeq:     {"JGEQ", 1, StatusActive},
	OpJSLess:   {"JSLESS", 1, StatusActive},
	OpJSLeq:    {"JSLEQ", 1, StatusActive},
	OpJSGrtr:   {"JSGRTR", 1, StatusActive},
	OpJSGeq:    {"JSGEQ", 1, StatusActive},
	OpShL:      {"SHL", 0, StatusActive},
	OpShR:      {"SHR", 0, StatusActive},
	OpSShR:     {"SSHR", 0, StatusActive},
	OpShLCPri:  {"SHL.C.PRI", 1, StatusActive},
	OpShLCAlt:  {"SHL.C.ALT", 1, StatusActive},
	OpShRCPri:  {"SHR.C.PRI", 1, StatusActive},
	OpShRCAlt:  {"SHR.C.ALT", 1, StatusActive},
	OpSMul:     {"SMUL", 0, StatusActive},
	OpSDiv:     {"SDIV", 0, StatusActive},
	OpSDivAlt:  {"SDIV.ALT", 0, StatusActive},
	OpUMul:     {"UMUL", 0, StatusActive},
	OpUDiv:     {"UDIV", 0, StatusActive},
	OpUDivAlt:  {"UDIV.ALT", 0, StatusActive},
	OpAdd:      {"ADD", 0, StatusActive},
	OpSub:      {"SUB", 0, StatusActive},
	OpSubAlt:   {"SUB.ALT", 0, StatusActive},
	OpAnd:      {"AND", 0, StatusActive},
	OpOr:       {"OR", 0, StatusActive},
	OpXor:      {"XOR", 0, StatusActive},
	OpNot:      {"NOT", 0, StatusActive},
	OpNeg:      {"NEG", 0, StatusActive},
	OpInvert:   {"INVERT", 0, StatusActive},
	OpAddC:     {"ADD.C", 1, StatusActive},
	OpSMulC:    {"SMUL.C", 1, StatusActive},
	OpZeroPri:  {"ZERO.PRI", 0, StatusActive},
	OpZeroAlt:  {"ZERO.ALT", 0, StatusActive},
	OpZero:     {"ZERO", 1, StatusActive},
	OpZeroS:    {"ZERO.S", 1, StatusActive},
	OpSignPri:  {"SIGN.PRI", 0, StatusActive},
	OpSignAlt:  {"SIGN.ALT", 0, StatusActive},
	OpEq:       {"EQ", 0, StatusActive},
	OpNeq:      {"NEQ", 0, StatusActive},
	OpLess:     {"LESS", 0, StatusActive},
	OpLeq:      {"LEQ", 0, StatusActive},
	OpGrtr:     {"GRTR", 0, StatusActive},
	OpGeq:      {"GEQ", 0, StatusActive},
	OpSLess:    {"SLESS", 0, StatusActive},
	OpSLeq:     {"SLEQ", 0, StatusActive},
	OpSGrtr:    {"SGRTR", 0, StatusActive},
	OpSGeq:     {"SGEQ", 0, StatusActive},
	OpEqCPri:   {"EQ.C.PRI", 1, StatusActive},
	OpEqCAlt:   {"EQ.C.ALT", 1, StatusActive},
	OpIncPri:   {"INC.PRI", 0, StatusActive},
	OpIncAlt:   {"INC.ALT", 0, StatusActive},
	OpInc:      {"INC", 1, StatusActive},
	OpIncS:     {"INC.S", 1, StatusActive},
	OpIncI:     {"INC.I", 0, StatusActive},
	OpDecPri:   {"DEC.PRI", 0, StatusActive},
	OpDecAlt:   {"DEC.ALT", 0, StatusActive},
	OpDec:      {"DEC", 1, StatusActive},
	OpDecS:     {"DEC.S", 1, StatusActive},
	OpDecI:     {"DEC.I", 0, StatusActive},
	OpMovs:     {"MOVS", 1, StatusActive},
	OpCmps:     {"CMPS", 1, StatusActive},
	OpFill:     {"FILL", 1, StatusActive},
	OpHalt:     {"HALT", 1, StatusActive},
	OpBounds:   {"BOUNDS", 1, StatusActive},

	OpSysReqPri: {"SYSREQ.PRI", 0, StatusActive},
	OpSysReqC:   {"SYSREQ.C", 1, StatusActive},
	OpFileOp:    {"FILE", 2, StatusObsolete},
	OpLine:      {"LINE", 2, StatusObsolete},
	OpSymBol:    {"SYMBOL", 2, StatusObsolete},
	OpSRange:    {"SRANGE", 2, StatusObsolete},
	OpJumpPri:   {"JUMP.PRI", 0, StatusObsolete},
	OpSwitch:    {"SWITCH", 1, StatusActive},
	OpCaseTbl:   {"CASETBL", -1, StatusActive}, // variable length, decoded specially
	OpSwap_Pri:  {"SWAP.PRI", 0, StatusActive},
	OpSwap_Alt:  {"SWAP.ALT", 0, StatusActive},
	OpPushAddr:  {"PUSH.ADR", 1, StatusActive},
	OpNop:       {"NOP", 0, StatusActive},
	OpSysReqD:   {"SYSREQ.D", 1, StatusActive},
	OpSymTag:    {"SYMTAG", 1, StatusObsolete},
	OpBreak:     {"BREAK", 0, StatusActive},
}

// Lookup returns the catalog entry for op, or (zero value, false) for an
// opcode number never assigned in this instruction set.
func Lookup(op Opcode) (OpcodeInfo, bool) {
	info, ok := opcodeTable[op]
	return info, ok
}

// Catalog returns every registered opcode's info, ordered by opcode
// number, standing in for the interpreter's own opcode dispatch table
// that plugin.cpp's AMX_FLAG_BROWSE probe returns a pointer to: this
// module has no separate non-JIT interpreter to browse, so
// pluginhost.Host serves this catalog directly instead.
func Catalog() []OpcodeInfo {
	out := make([]OpcodeInfo, 0, len(opcodeTable))
	for op := Opcode(0); op < OpNumOpcodes; op++ {
		if info, ok := opcodeTable[op]; ok {
			out = append(out, info)
		}
	}
	return out
}

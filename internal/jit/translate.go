package jit

import (
	"fmt"

	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/samplerun/amxjit/internal/amx"
)

// funcTranslator holds the state needed to translate one AMX function
// into a single contiguous native buffer. A fresh translator (and a
// fresh assembler/label table) is created per compiled function; there
// is no cross-function register allocation state to carry, since PRI,
// ALT, FRM and STK are bound to the same host registers everywhere.
type funcTranslator struct {
	cache *Cache
	img   *amx.Image
	asm   *assembler
	dec   *amx.Decoder
}

func translateFunction(cache *Cache, img *amx.Image, entry amx.UCell) ([]byte, uintptr, error) {
	asm, err := newAssembler()
	if err != nil {
		return nil, 0, err
	}

	t := &funcTranslator{cache: cache, img: img, asm: asm, dec: amx.NewDecoder(img, entry)}

	for {
		inst, ok, err := t.dec.Next()
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			break
		}

		info, _ := amx.Lookup(inst.Op)

		if inst.Op == amx.OpProc && inst.IP != entry {
			// Reached the next function's prologue: rewind so a later
			// Cache.Get call starting at this address gets a fresh,
			// independent compile, per invariant P2 (one prologue per
			// function boundary, never straddled).
			t.dec.Seek(inst.IP)
			break
		}

		if err := t.translate(inst); err != nil {
			return nil, 0, fmt.Errorf("at offset %d (%s): %w", inst.IP, info.Name, err)
		}
	}

	if unresolved := t.asm.labels.unresolved(); len(unresolved) > 0 {
		return nil, 0, fmt.Errorf("unresolved branch target(s) in function at %d: %v", entry, unresolved)
	}

	raw := t.asm.assemble()
	code, err := mmapCodeSegment(raw)
	if err != nil {
		return nil, 0, fmt.Errorf("allocating executable buffer: %w", err)
	}
	if err := protectCodeSegment(code); err != nil {
		return nil, 0, fmt.Errorf("protecting executable buffer: %w", err)
	}

	return code, addressOf(code), nil
}

// translate dispatches one decoded instruction to its opcode family's
// compile method. Each bindHere call below registers the instruction
// about to be emitted as the resolution target for any branch that
// referenced this AMX offset before it was reached.
func (t *funcTranslator) translate(inst amx.Instruction) error {
	switch inst.Op {
	case amx.OpNop, amx.OpBreak:
		t.bindMarker(inst.IP)
		t.asm.nop()
		return nil

	case amx.OpProc:
		t.bindMarker(inst.IP)
		return t.compileProc()
	case amx.OpRet:
		t.bindMarker(inst.IP)
		return t.compileRet()
	case amx.OpRetn:
		t.bindMarker(inst.IP)
		return t.compileRetn()

	case amx.OpLoadPri, amx.OpLoadAlt:
		t.bindMarker(inst.IP)
		return t.compileLoad(inst)
	case amx.OpLoadSPri, amx.OpLoadSAlt:
		t.bindMarker(inst.IP)
		return t.compileLoadS(inst)
	case amx.OpLoadIPri:
		t.bindMarker(inst.IP)
		return t.compileLoadI()
	case amx.OpStorPri, amx.OpStorAlt:
		t.bindMarker(inst.IP)
		return t.compileStor(inst)
	case amx.OpStorSPri, amx.OpStorSAlt:
		t.bindMarker(inst.IP)
		return t.compileStorS(inst)
	case amx.OpStorI:
		t.bindMarker(inst.IP)
		return t.compileStorI()
	case amx.OpLRefPri, amx.OpLRefAlt, amx.OpLRefSPri, amx.OpLRefSAlt,
		amx.OpSRefPri, amx.OpSRefAlt, amx.OpSRefSPri, amx.OpSRefSAlt:
		t.bindMarker(inst.IP)
		return t.compileRef(inst)
	case amx.OpLodbI:
		t.bindMarker(inst.IP)
		return t.compileLodbI(inst)
	case amx.OpStrbI:
		t.bindMarker(inst.IP)
		return t.compileStrbI(inst)
	case amx.OpLidx, amx.OpLIdxB:
		t.bindMarker(inst.IP)
		return t.compileLidx(inst)
	case amx.OpIdxAddr, amx.OpIdxAddrB:
		t.bindMarker(inst.IP)
		return t.compileIdxAddr(inst)

	case amx.OpConstPri, amx.OpConstAlt:
		t.bindMarker(inst.IP)
		return t.compileConst(inst)
	case amx.OpAddrPri, amx.OpAddrAlt:
		t.bindMarker(inst.IP)
		return t.compileAddr(inst)
	case amx.OpMovePri, amx.OpMoveAlt:
		t.bindMarker(inst.IP)
		return t.compileMove(inst)
	case amx.OpXchg, amx.OpSwap_Pri, amx.OpSwap_Alt:
		t.bindMarker(inst.IP)
		return t.compileXchg()
	case amx.OpZeroPri, amx.OpZeroAlt, amx.OpZero, amx.OpZeroS:
		t.bindMarker(inst.IP)
		return t.compileZero(inst)

	case amx.OpPushPri, amx.OpPushAlt, amx.OpPushC, amx.OpPush, amx.OpPushS, amx.OpPushAddr:
		t.bindMarker(inst.IP)
		return t.compilePush(inst)
	case amx.OpPopPri, amx.OpPopAlt:
		t.bindMarker(inst.IP)
		return t.compilePop(inst)
	case amx.OpStack, amx.OpHeap:
		t.bindMarker(inst.IP)
		return t.compileStackAdjust(inst)

	case amx.OpCall:
		t.bindMarker(inst.IP)
		return t.compileCall(inst)
	case amx.OpJump, amx.OpJZer, amx.OpJNZ, amx.OpJEq, amx.OpJNeq,
		amx.OpJLess, amx.OpJLeq, amx.OpJGrtr, amx.OpJGeq,
		amx.OpJSLess, amx.OpJSLeq, amx.OpJSGrtr, amx.OpJSGeq:
		t.bindMarker(inst.IP)
		return t.compileBranch(inst)

	case amx.OpAdd, amx.OpSub, amx.OpSubAlt, amx.OpAddC,
		amx.OpAnd, amx.OpOr, amx.OpXor, amx.OpNot, amx.OpNeg, amx.OpInvert,
		amx.OpSMul, amx.OpSMulC, amx.OpUMul, amx.OpSDiv, amx.OpSDivAlt, amx.OpUDiv, amx.OpUDivAlt,
		amx.OpShL, amx.OpShR, amx.OpSShR, amx.OpShLCPri, amx.OpShLCAlt, amx.OpShRCPri, amx.OpShRCAlt,
		amx.OpIncPri, amx.OpIncAlt, amx.OpInc, amx.OpIncS, amx.OpIncI,
		amx.OpDecPri, amx.OpDecAlt, amx.OpDec, amx.OpDecS, amx.OpDecI:
		t.bindMarker(inst.IP)
		return t.compileArith(inst)

	case amx.OpEq, amx.OpNeq, amx.OpLess, amx.OpLeq, amx.OpGrtr, amx.OpGeq,
		amx.OpSLess, amx.OpSLeq, amx.OpSGrtr, amx.OpSGeq, amx.OpEqCPri, amx.OpEqCAlt:
		t.bindMarker(inst.IP)
		return t.compileCompare(inst)

	case amx.OpMovs, amx.OpCmps, amx.OpFill:
		t.bindMarker(inst.IP)
		return t.compileMemOp(inst)

	case amx.OpLctrl, amx.OpSctrl:
		t.bindMarker(inst.IP)
		return t.compileCtrl(inst)

	case amx.OpSwitch:
		t.bindMarker(inst.IP)
		return t.compileSwitch(inst)
	case amx.OpCaseTbl:
		// Inert data consumed by the decoder; only reachable by falling
		// off the end of the preceding SWITCH's translation, which
		// itself already terminates in an unconditional jump, so nothing
		// ever executes here.
		return nil

	case amx.OpSysReqPri, amx.OpSysReqC, amx.OpSysReqD:
		t.bindMarker(inst.IP)
		return t.compileSysReq(inst)

	case amx.OpHalt:
		t.bindMarker(inst.IP)
		return t.compileHalt(inst)
	case amx.OpBounds:
		t.bindMarker(inst.IP)
		return t.compileBounds(inst)

	case amx.OpAlign, amx.OpAlignAlt:
		t.bindMarker(inst.IP)
		return t.compileAlign(inst)
	case amx.OpSignPri, amx.OpSignAlt:
		t.bindMarker(inst.IP)
		return t.compileSignExtend(inst)

	case amx.OpCallPri, amx.OpJRel, amx.OpFileOp, amx.OpSymTag, amx.OpSymBol,
		amx.OpLine, amx.OpPushR, amx.OpSRange, amx.OpJumpPri:
		return fmt.Errorf("opcode %d is obsolete and not emitted by any supported compiler version", inst.Op)

	default:
		return fmt.Errorf("no translation for opcode %d", inst.Op)
	}
}

// bindMarker anchors the AMX offset ip to the next instruction the
// assembler emits, so a forward branch decoded earlier in the function
// can resolve to it once we reach it here.
func (t *funcTranslator) bindMarker(ip amx.UCell) {
	marker := t.asm.nop()
	t.asm.labels.bindHere(ip, tagBranch, marker)
}

// dataAddr computes the native address of AMX data offset off, folding
// the image's data-section base into a compile-time constant per the
// spec's "no runtime base add" design: the JIT is only ever regenerated
// for a specific already-loaded image, so its base never changes for
// the lifetime of a CompiledFunction.
func (t *funcTranslator) dataAddr(off amx.UCell) int64 {
	return int64(t.img.DataPtr(off))
}

func jccFor(op amx.Opcode) (obj.As, bool) {
	switch op {
	case amx.OpJZer:
		return x86.AJEQ, true
	case amx.OpJNZ:
		return x86.AJNE, true
	case amx.OpJEq:
		return x86.AJEQ, false
	case amx.OpJNeq:
		return x86.AJNE, false
	case amx.OpJLess:
		return x86.AJCS, false // unsigned <
	case amx.OpJLeq:
		return x86.AJLS, false // unsigned <=
	case amx.OpJGrtr:
		return x86.AJHI, false // unsigned >
	case amx.OpJGeq:
		return x86.AJCC, false // unsigned >=
	case amx.OpJSLess:
		return x86.AJLT, false
	case amx.OpJSLeq:
		return x86.AJLE, false
	case amx.OpJSGrtr:
		return x86.AJGT, false
	case amx.OpJSGeq:
		return x86.AJGE, false
	}
	return 0, false
}

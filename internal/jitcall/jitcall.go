// Package jitcall provides the single assembly entry point that
// transfers control from Go into a JIT-compiled AMX function and back.
// It knows nothing about AMX opcodes or the code cache; its whole job is
// repointing the stack/frame registers at the caller-supplied AMX stack
// for the duration of the call and reporting how the call ended.
package jitcall

import "reflect"

// UnwindSlots is the four-word block Call and the compiled code it
// invokes both read and write: Call populates SavedSP/SavedRA (and
// clears ErrCode) immediately before entering compiled code; a HALT,
// BOUNDS, or divide-by-zero abort inside that code writes ErrCode and
// jumps straight to SavedRA after restoring SP from SavedSP itself,
// skipping however many native call frames were active. RetVal is
// filled in by landingPad from PRI on an ordinary (non-aborted) return
// chain, since PRI itself is not otherwise preserved anywhere Call can
// still read it once every general register is considered clobbered.
// One instance is shared by every function belonging to the same AMX
// image.
type UnwindSlots struct {
	ErrCode int32
	SavedSP uintptr
	SavedRA uintptr
	RetVal  int32
}

// activeUnwind lets landingPad recover the current call's UnwindSlots
// once control returns to it, at which point every general-purpose
// register Call itself was using may have been overwritten by however
// many AMX instructions just ran. This makes Call unsafe for goroutines
// calling into it at the same instant; neither jit.Trampoline nor
// pluginhost.Host serializes calls into it.
var activeUnwind *UnwindSlots

var _ = &activeUnwind

// landingPadAddr is resolved once. landingPad is a genuine top-level
// function rather than a label local to Call so that its entry address
// is obtainable the ordinary way any Go function's code pointer is,
// instead of through a PC-capture trick baked into Call's own body.
var landingPadAddr = reflect.ValueOf(landingPad).Pointer()

// Call transfers control to the native code at entry, with STK and FRM
// (ESP/EBP) repointed at stackTop/framePtr for the call's duration, and
// reports how it ended: 0 for an ordinary return chain reaching all the
// way back out, or whatever non-zero AMX error code an abort sequence
// wrote into unwind.ErrCode.
//
//go:noescape
func Call(entry, stackTop, framePtr uintptr, unwind *UnwindSlots) int32

// landingPad has no Go body; it exists purely as an addressable jump
// target for the assembly in jitcall_386.s. Never call it directly.
func landingPad()

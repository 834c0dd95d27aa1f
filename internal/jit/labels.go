package jit

import (
	"github.com/twitchyliquid64/golang-asm/obj"

	"github.com/samplerun/amxjit/internal/amx"
)

// labelKey identifies a jump target within one function's translation.
// tag keeps separate label spaces at a single AMX address apart,
// mirroring the way the teacher keys its label map by a composed string
// rather than a bare address. The translator binds and resolves every
// label, SWITCH case targets included, under tagBranch; tagCase is
// declared but not used.
type labelKey struct {
	Addr amx.UCell
	Tag  string
}

const (
	tagBranch = "branch"
	tagCase   = "case"
)

// labelTable resolves forward and backward jump targets while a single
// function is being translated. A branch to an address not yet reached
// by the linear decode registers a callback that fires the moment
// bindHere reaches that address; a branch to an already-bound address
// resolves immediately. This is the same two-phase pattern the teacher
// uses for Wasm block labels, keyed here by AMX code offset instead of a
// symbolic block id.
type labelTable struct {
	initial   map[labelKey]*obj.Prog
	callbacks map[labelKey][]func(*obj.Prog)
}

func newLabelTable() *labelTable {
	return &labelTable{
		initial:   make(map[labelKey]*obj.Prog),
		callbacks: make(map[labelKey][]func(*obj.Prog)),
	}
}

// bindHere records prog as the first instruction living at (addr, tag)
// and fires any jump patch-ups that were waiting on it.
func (t *labelTable) bindHere(addr amx.UCell, tag string, prog *obj.Prog) {
	key := labelKey{addr, tag}
	t.initial[key] = prog
	for _, cb := range t.callbacks[key] {
		cb(prog)
	}
	delete(t.callbacks, key)
}

// resolve points jmp at the instruction bound to (addr, tag), immediately
// if it is already known, or lazily via a deferred callback otherwise.
func (t *labelTable) resolve(addr amx.UCell, tag string, jmp *obj.Prog) {
	key := labelKey{addr, tag}
	if target, ok := t.initial[key]; ok {
		jmp.To.SetTarget(target)
		return
	}
	t.callbacks[key] = append(t.callbacks[key], func(target *obj.Prog) {
		jmp.To.SetTarget(target)
	})
}

// unresolved reports labels that were referenced but never bound, which
// indicates a branch into the middle of a CASETBL table or past the end
// of the function body — a translation error, not a runtime one.
func (t *labelTable) unresolved() []labelKey {
	var out []labelKey
	for key, cbs := range t.callbacks {
		if len(cbs) > 0 {
			out = append(out, key)
		}
	}
	return out
}

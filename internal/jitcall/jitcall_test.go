package jitcall

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// The hand-written offsets baked into jitcall_386.s (0, 4, 8, 12 for
// ErrCode/SavedSP/SavedRA/RetVal) assume this exact field order and
// width. If UnwindSlots is ever reordered or gains a field before
// RetVal, the assembly silently starts writing the wrong slot.
func TestUnwindSlotsLayoutMatchesAssembly(t *testing.T) {
	var u UnwindSlots
	assert.Equal(t, uintptr(0), unsafe.Offsetof(u.ErrCode))
	assert.Equal(t, uintptr(4), unsafe.Offsetof(u.SavedSP))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(u.SavedRA))
	assert.Equal(t, uintptr(12), unsafe.Offsetof(u.RetVal))
}

func TestLandingPadAddrResolved(t *testing.T) {
	assert.NotZero(t, landingPadAddr)
}

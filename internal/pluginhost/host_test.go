package pluginhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samplerun/amxjit/internal/amx"
)

func TestHostLifecycle(t *testing.T) {
	h := New()
	assert.NotZero(t, h.Supports())

	require.NoError(t, h.Load(HostData{}))

	img := &amx.Image{Data: make([]byte, 64)}
	require.NoError(t, h.AmxLoad(img))

	// A second AmxLoad of the same image is rejected rather than
	// silently replacing the first Cache/Trampoline pair.
	assert.Error(t, h.AmxLoad(img))

	h.AmxUnload(img)
	// Unloading an image not currently loaded is a no-op, not a panic.
	h.AmxUnload(img)

	h.Unload()
}

func TestHostExecUnknownImage(t *testing.T) {
	h := New()
	require.NoError(t, h.Load(HostData{}))

	img := &amx.Image{Data: make([]byte, 64)}
	var retval amx.Cell
	code := h.Exec(img, &retval, 0)
	assert.Equal(t, int32(amx.ErrNotFound), code)
}

func TestHostExecBrowseReturnsOpcodeList(t *testing.T) {
	h := New()
	require.NoError(t, h.Load(HostData{}))

	img := &amx.Image{
		Header: amx.Header{Flags: amx.FlagBrowse},
		Data:   make([]byte, 64),
	}
	// No AmxLoad call: the browse probe must short-circuit before ever
	// consulting h.jits, matching amx_Exec_JIT's early-return branch.
	var retval amx.Cell
	code := h.Exec(img, &retval, 0)
	assert.Equal(t, int32(amx.ErrNone), code)
	assert.NotZero(t, retval)
}

func TestHostGetAddr(t *testing.T) {
	h := New()
	img := &amx.Image{
		Header: amx.Header{Dat: 4},
		Data:   make([]byte, 16),
	}
	addr := h.GetAddr(img, 0)
	assert.NotZero(t, addr)
}

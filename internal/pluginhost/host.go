// Package pluginhost implements the AMX JIT plug-in lifecycle contract a
// host process (a Pawn/SA-MP-style server) loads: version/capability
// negotiation, per-image compile-on-load, and the Exec/GetAddr
// trampolines the host calls into instead of its own bytecode
// interpreter once a script has been handed to this plug-in.
package pluginhost

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/samplerun/amxjit/internal/amx"
	"github.com/samplerun/amxjit/internal/jit"
)

// version/capability flags returned from Supports, matching the pawn
// plug-in ABI's AMX_VERSION / AMX_FLAG_JITC bit positions.
const (
	amxVersion    = 3
	amxFlagJITC   = 0x0200
	supportsFlags = amxVersion | amxFlagJITC<<16
)

// Logger wraps a host-supplied logprintf-style callback. It is nil-safe
// so a Host built without one (as in tests) never needs a no-op stand-in.
type Logger struct {
	printf func(format string, args ...interface{})
}

func NewLogger(printf func(format string, args ...interface{})) *Logger {
	return &Logger{printf: printf}
}

func (l *Logger) Printf(format string, args ...interface{}) {
	if l == nil || l.printf == nil {
		return
	}
	l.printf(format, args...)
}

// HostData is the pointer table the host passes to Load: a logging
// callback plus the host's own exported function table (Exec, GetAddr,
// and friends), which this plug-in overrides for images it has
// compiled.
type HostData struct {
	LogPrintf  func(format string, args ...interface{})
	AmxExports []uintptr
}

// Host is the process-wide plug-in object: one per loaded shared
// library instance, tracking a Cache/Trampoline pair per loaded image.
// There are no package-level globals; cmd/amxjitplugin's cgo exports all
// forward onto a single Host value created by the first Supports or Load
// call.
type Host struct {
	mu     sync.Mutex
	log    *Logger
	config Config
	jits   map[*amx.Image]*imageJIT

	// opcodeList stands in for the pointer plugin.cpp's AmxLoad obtains
	// once by browsing the host's own (unhooked) interpreter before
	// installing its Exec hook. This module has no separate interpreter
	// to browse, so it is populated straight from the opcode catalog
	// (C1) instead, and its address is what Exec hands back when a
	// caller sets amx.FlagBrowse.
	opcodeList []amx.OpcodeInfo
}

type imageJIT struct {
	cache      *jit.Cache
	trampoline *jit.Trampoline
}

// opcodeListAddr returns the address of list's backing array. list is
// built once in New and never reallocated, so the address stays valid
// for the Host's whole lifetime.
func opcodeListAddr(list []amx.OpcodeInfo) uintptr {
	if len(list) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&list[0]))
}

func New() *Host {
	return &Host{
		jits:       make(map[*amx.Image]*imageJIT),
		opcodeList: amx.Catalog(),
	}
}

// Supports reports the plug-in's AMX version and capability flags, read
// by the host before Load to decide whether to hand any scripts to this
// plug-in at all.
func (h *Host) Supports() uint32 {
	return supportsFlags
}

// Load installs the host-supplied logger and resets the configuration to
// its defaults. It does not read server.cfg; nothing in this package
// calls ParseConfig outside tests. It never touches AmxExports
// itself; that table exists for a future host-callback bridge the
// current spec doesn't require.
func (h *Host) Load(data HostData) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.log = NewLogger(data.LogPrintf)
	h.config = Config{JitStack: defaultJitStack}
	return nil
}

// Unload releases every still-loaded image's compiled code. The host is
// expected to have called AmxUnload for each image first; this is a
// backstop for images it forgot.
func (h *Host) Unload() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for img, j := range h.jits {
		if err := j.cache.Release(); err != nil {
			h.log.Printf("amxjit: releasing image on Unload: %v", err)
		}
		delete(h.jits, img)
	}
}

// AmxLoad compiles nothing eagerly (compilation is lazy per C5); it just
// creates the per-image Cache/Trampoline pair Exec and GetAddr use.
func (h *Host) AmxLoad(img *amx.Image) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.jits[img]; exists {
		return fmt.Errorf("pluginhost: image already loaded")
	}
	cache := jit.NewCache(img)
	h.jits[img] = &imageJIT{
		cache:      cache,
		trampoline: jit.NewTrampoline(img, cache),
	}
	h.log.Printf("amxjit: loaded %q", img.Name())
	return nil
}

// AmxUnload releases every buffer this plug-in mmapped for img and
// forgets it. Calling Exec or GetAddr for img afterwards is undefined,
// same as the underlying AMX* the host has itself invalidated by now.
func (h *Host) AmxUnload(img *amx.Image) {
	h.mu.Lock()
	j, ok := h.jits[img]
	delete(h.jits, img)
	h.mu.Unlock()
	if !ok {
		return
	}
	if err := j.cache.Release(); err != nil {
		h.log.Printf("amxjit: releasing image on AmxUnload: %v", err)
	}
	h.log.Printf("amxjit: unloaded %q", img.Name())
}

// Exec runs the public function at index, matching the amx_Exec ABI:
// the return value lands in *retval, and the AMX error code (0 for
// success) is the function's own return value.
func (h *Host) Exec(img *amx.Image, retval *amx.Cell, index int32) int32 {
	if img.Flags&amx.FlagBrowse != 0 {
		// amx_BrowseRelocate() wants the opcode list, not a call: hand
		// back the address of our own opcode catalog and bail out
		// immediately, mirroring amx_Exec_JIT's AMX_FLAG_BROWSE branch.
		if retval != nil {
			*retval = amx.Cell(opcodeListAddr(h.opcodeList))
		}
		return int32(amx.ErrNone)
	}

	h.mu.Lock()
	j, ok := h.jits[img]
	h.mu.Unlock()
	if !ok {
		return int32(amx.ErrNotFound)
	}

	val, aerr, err := j.trampoline.CallPublic(int(index), nil)
	if err != nil {
		h.log.Printf("amxjit: exec public %d: %v", index, err)
		return int32(amx.ErrOther)
	}
	if aerr != amx.ErrNone {
		return int32(aerr)
	}
	if retval != nil {
		*retval = val
	}
	return int32(amx.ErrNone)
}

// GetAddr resolves an AMX data-section cell offset to a native pointer,
// matching amx_GetAddr. It never allocates or validates beyond bounds
// the image's own data slice already enforces.
func (h *Host) GetAddr(img *amx.Image, amxAddr amx.Cell) uintptr {
	return img.DataPtr(amx.UCell(amxAddr))
}

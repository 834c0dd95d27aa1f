package jit

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/samplerun/amxjit/internal/amx"
	"github.com/samplerun/amxjit/internal/jitcall"
)

// CompiledFunction is one JIT-compiled AMX function: an executable
// buffer plus the entry point native code jumps to. Reserve returns a
// pointer to one of these before its Code/entry fields are populated, so
// a CALL compiled while its own callee is still mid-translation (direct
// or mutual recursion) can bake in the pointer's address rather than the
// not-yet-known entry value; entry is only ever read at call time, by
// which point compile has always finished filling it in.
type CompiledFunction struct {
	EntryAddr amx.UCell
	Code      []byte
	entry     uintptr
}

// Cache maps AMX function entry addresses to their compiled native code
// for a single loaded Image. One Cache exists per Image, created at
// AmxLoad and torn down at AmxUnload.
type Cache struct {
	img *amx.Image

	mu        sync.Mutex
	funcs     map[amx.UCell]*CompiledFunction
	compiling map[amx.UCell]bool
	hits      int
	misses    int

	unwind jitcall.UnwindSlots

	// floatScratch is a fixed memory cell the inline x87 float natives
	// use to round-trip a value from the FPU stack back into PRI, since
	// the FPU has no direct FPU-register-to-general-register move.
	floatScratch int32
}

func (c *Cache) floatScratchAddr() uintptr { return uintptr(unsafe.Pointer(&c.floatScratch)) }

func NewCache(img *amx.Image) *Cache {
	return &Cache{
		img:       img,
		funcs:     make(map[amx.UCell]*CompiledFunction),
		compiling: make(map[amx.UCell]bool),
	}
}

// Get returns the fully compiled function starting at entry, compiling
// it on first use. It is what the entry trampoline calls to obtain a
// ready-to-run function; it must never be called while entry is already
// on the current goroutine's compile stack (the translator calls
// reserve, not Get, when resolving a CALL target for exactly this
// reason).
func (c *Cache) Get(entry amx.UCell) (*CompiledFunction, error) {
	c.mu.Lock()
	if fn, ok := c.funcs[entry]; ok {
		c.hits++
		c.mu.Unlock()
		return fn, nil
	}
	c.misses++
	c.mu.Unlock()

	if err := c.compile(entry); err != nil {
		return nil, err
	}

	c.mu.Lock()
	fn := c.funcs[entry]
	c.mu.Unlock()
	return fn, nil
}

// reserve returns the CompiledFunction record for entry, creating an
// empty one and kicking off its compile if this is the first reference
// to it. Called by CALL translation: the returned pointer's address is
// baked into the caller's code as an indirect-call target, valid the
// moment compile() below fills in .entry, which always happens before
// the image's compiled code is ever entered (see Trampoline.CallPublic).
func (c *Cache) reserve(entry amx.UCell) (*CompiledFunction, error) {
	c.mu.Lock()
	if fn, ok := c.funcs[entry]; ok {
		c.mu.Unlock()
		return fn, nil
	}
	if c.compiling[entry] {
		// Direct or mutual recursion: the placeholder already exists
		// (compile below creates it before recursing into translation),
		// just hand back the pointer under construction.
		fn := c.funcs[entry]
		c.mu.Unlock()
		if fn == nil {
			return nil, fmt.Errorf("jit: internal error: recursive reserve of %d before placeholder exists", entry)
		}
		return fn, nil
	}
	c.mu.Unlock()

	if err := c.compile(entry); err != nil {
		return nil, err
	}
	c.mu.Lock()
	fn := c.funcs[entry]
	c.mu.Unlock()
	return fn, nil
}

// compile drives one function's translation to completion, guarding
// against re-entering the same entry from within its own callees.
func (c *Cache) compile(entry amx.UCell) error {
	c.mu.Lock()
	if c.funcs[entry] != nil {
		c.mu.Unlock()
		return nil
	}
	placeholder := &CompiledFunction{EntryAddr: entry}
	c.funcs[entry] = placeholder
	c.compiling[entry] = true
	c.mu.Unlock()

	code, entryAddr, err := translateFunction(c, c.img, entry)

	c.mu.Lock()
	delete(c.compiling, entry)
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("jit: compiling function at %d: %w", entry, err)
	}

	placeholder.Code = code
	placeholder.entry = entryAddr
	traceCompile(uint32(entry), code)
	return nil
}

// Stats reports cumulative cache hit/miss counts, used by tests to
// assert P1 without exposing the internal map.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Release unmaps every compiled buffer. Called once, from AmxUnload or
// (for an image still loaded) from Unload; the Cache must not be used
// afterwards.
func (c *Cache) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for addr, fn := range c.funcs {
		if err := munmapCodeSegment(fn.Code); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("jit: unmapping function at %d: %w", addr, err)
		}
	}
	c.funcs = nil
	return firstErr
}

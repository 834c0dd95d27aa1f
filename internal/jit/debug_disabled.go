//go:build !amxjitdebug

package jit

// traceCompile is a no-op by default; see debug_amxjitdebug.go for the
// verbose tracing built when the amxjitdebug build tag is set.
func traceCompile(entry uint32, code []byte) {}

// Command amxjitplugin builds a cgo shared library exposing the pawn
// plug-in C ABI (Supports/Load/Unload/AmxLoad/AmxUnload/AmxExec/
// AmxGetAddr) over internal/pluginhost.Host. All marshalling between C
// pointers and Go values happens in this file only; every real decision
// is made by Host.
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef void (*logprintf_t)(const char *format);

static void call_logprintf(logprintf_t fn, const char *s) { fn(s); }
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/samplerun/amxjit/internal/amx"
	"github.com/samplerun/amxjit/internal/pluginhost"
)

// host is the plug-in's single process-wide object, created by the first
// Supports or Load call; Unload releases its images. cmd/amxjitplugin never keeps any state of its
// own beyond this pointer and the per-image amx.Image values the host
// hands back to it on every call.
var host *pluginhost.Host

// images maps the C-side AMX* the host passes into every export back to
// the amx.Image AmxLoad built for it, since the plug-in ABI identifies a
// loaded script by that opaque pointer rather than by any handle this
// code controls.
var images = map[unsafe.Pointer]*amx.Image{}

//export Supports
func Supports() C.uint32_t {
	if host == nil {
		host = pluginhost.New()
	}
	return C.uint32_t(host.Supports())
}

//export Load
func Load(logprintf C.logprintf_t) C.int {
	if host == nil {
		host = pluginhost.New()
	}
	var printf func(format string, args ...interface{})
	if logprintf != nil {
		printf = func(format string, args ...interface{}) {
			cstr := C.CString(fmt.Sprintf(format, args...))
			C.call_logprintf(logprintf, cstr)
			C.free(unsafe.Pointer(cstr))
		}
	}
	if err := host.Load(pluginhost.HostData{LogPrintf: printf}); err != nil {
		return -1
	}
	return 0
}

//export Unload
func Unload() {
	if host != nil {
		host.Unload()
	}
}

// amxPtr stands in for the real AMX* struct the host defines; this
// plug-in never reads it beyond using its address as a loaded-image key.
// The raw script bytes arrive via imageBytes/imageSize, which the host
// passes explicitly rather than this code reaching into AMX* fields
// whose layout it does not own.
//
//export AmxLoad
func AmxLoad(amxPtr unsafe.Pointer, imageBytes *C.uint8_t, imageSize C.int) C.int {
	raw := C.GoBytes(unsafe.Pointer(imageBytes), imageSize)
	img, err := amx.LoadImage(raw)
	if err != nil {
		return C.int(amx.ErrInvInstr)
	}
	images[amxPtr] = img
	if err := host.AmxLoad(img); err != nil {
		delete(images, amxPtr)
		return C.int(amx.ErrInitJIT)
	}
	return C.int(amx.ErrNone)
}

//export AmxUnload
func AmxUnload(amxPtr unsafe.Pointer) C.int {
	img, ok := images[amxPtr]
	if !ok {
		return C.int(amx.ErrNotFound)
	}
	host.AmxUnload(img)
	delete(images, amxPtr)
	return C.int(amx.ErrNone)
}

//export AmxExec
func AmxExec(amxPtr unsafe.Pointer, retval *C.int32_t, index C.int32_t) C.int32_t {
	img, ok := images[amxPtr]
	if !ok {
		return C.int32_t(amx.ErrNotFound)
	}
	var rv amx.Cell
	code := host.Exec(img, &rv, int32(index))
	if retval != nil {
		*retval = C.int32_t(rv)
	}
	return C.int32_t(code)
}

//export AmxGetAddr
func AmxGetAddr(amxPtr unsafe.Pointer, amxAddr C.int32_t) unsafe.Pointer {
	img, ok := images[amxPtr]
	if !ok {
		return nil
	}
	return unsafe.Pointer(host.GetAddr(img, amx.Cell(amxAddr)))
}

func main() {}

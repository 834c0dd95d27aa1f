package amx

import "unsafe"

// uintptrOf returns the address of the first byte of b. Callers must
// keep the backing Image.Data slice alive for as long as the returned
// address is used; the code cache holds a reference to the owning Image
// for exactly this reason.
func uintptrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// Addr returns the native address of the Image itself, passed to native
// functions as their "AMX*" handle argument. Callers must keep the
// Image referenced elsewhere for as long as compiled code may still call
// out to a native using this address; Cache holds exactly such a
// reference for the lifetime of every function it compiles.
func (img *Image) Addr() uintptr {
	return uintptr(unsafe.Pointer(img))
}

package jit

import "golang.org/x/sys/unix"

// mmapCodeSegment copies code into a fresh anonymous, executable mapping
// and returns it. The mapping starts life read/write/exec so the copy
// can be made; the caller (translateFunction) drops it to read+exec with
// protectCodeSegment right afterwards.
func mmapCodeSegment(code []byte) ([]byte, error) {
	mapped, err := unix.Mmap(-1, 0, len(code),
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	copy(mapped, code)
	return mapped, nil
}

// protectCodeSegment drops write permission once a buffer's contents are
// final, so a translation bug can't corrupt already-JITed code via a
// stray store through a dangling Go slice.
func protectCodeSegment(code []byte) error {
	if len(code) == 0 {
		return nil
	}
	return unix.Mprotect(code, unix.PROT_READ|unix.PROT_EXEC)
}

func munmapCodeSegment(code []byte) error {
	if len(code) == 0 {
		return nil
	}
	return unix.Munmap(code)
}

package pehdr

import "unsafe"

// MemReader reads directly out of a loaded module's mapped memory,
// treating rva as an offset from base. It assumes the whole range it
// is asked to read is mapped and readable, which holds for any RVA
// inside a module the OS has already loaded for this process.
type MemReader uintptr

func (m MemReader) ReadAt(rva uint32, n int) []byte {
	if n <= 0 {
		return nil
	}
	addr := uintptr(m) + uintptr(rva)
	out := make([]byte, n)
	src := unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
	copy(out, src)
	return out
}

package trampoline

import (
	"encoding/binary"
	"unsafe"
)

// peekBytes reads n bytes starting at addr. addr must refer to memory
// that is at least readable in the current process; the pool is always
// such memory, and patch sites are assumed to be by contract.
func peekBytes(addr uint64, n int) []byte {
	out := make([]byte, n)
	src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), n)
	copy(out, src)
	return out
}

func peekByte(addr uint64) byte {
	return *(*byte)(unsafe.Pointer(uintptr(addr)))
}

func peekUint32(addr uint64) uint32 {
	return binary.LittleEndian.Uint32(peekBytes(addr, 4))
}

// pokeBytes writes data starting at addr. Callers writing into a patch
// site (as opposed to pool-owned memory) must first make the range
// writable with withWritable; pool memory is always RWX and needs no
// such dance.
func pokeBytes(addr uint64, data []byte) {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(data))
	copy(dst, data)
}

// fillBytes writes n copies of b starting at addr.
func fillBytes(addr uint64, n int, b byte) {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), n)
	for i := range dst {
		dst[i] = b
	}
}

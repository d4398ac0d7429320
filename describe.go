package trampoline

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// describeSite decodes as many instructions as fit in the first n
// bytes at addr and renders them for debug logging. This is purely a
// diagnostic aid: nothing in the patch encoding path depends on
// instruction boundaries, since patch sites are always exactly 5 or 6
// raw bytes by contract. It exists so SetDebug(true) shows what a patch
// is about to clobber, the same role x86asm plays in the teacher's own
// prologue analysis, just aimed at logging instead of relocation.
func describeSite(addr uint64, n int) string {
	code := peekBytes(addr, n)
	out := ""
	for off := 0; off < len(code); {
		inst, err := x86asm.Decode(code[off:], 64)
		if err != nil || inst.Len == 0 {
			out += fmt.Sprintf("[%#x] <undecodable %02x>", addr+uint64(off), code[off])
			break
		}
		out += fmt.Sprintf("[%#x] %s; ", addr+uint64(off), inst.String())
		off += inst.Len
	}
	return out
}

//go:build windows

package trampoline

import "golang.org/x/sys/windows"

const pageExecuteReadwrite = windows.PAGE_EXECUTE_READWRITE

// osProtector is the production protector: it flips a patch site's
// page protection to PAGE_EXECUTE_READWRITE for the write and restores
// whatever was there before.
type osProtector struct{}

func newProtector() protector { return osProtector{} }

func (osProtector) makeWritable(addr uint64, size int) (func(), error) {
	var oldProtect uint32
	if err := windows.VirtualProtect(uintptr(addr), uintptr(size), pageExecuteReadwrite, &oldProtect); err != nil {
		return nil, err
	}
	restore := func() {
		var discard uint32
		// Best effort: if this fails there's nothing more to do, the
		// write already landed and the page is left executable+writable
		// rather than reverted, which is safe if not tidy.
		_ = windows.VirtualProtect(uintptr(addr), uintptr(size), oldProtect, &discard)
	}
	return restore, nil
}

//go:build windows

package trampoline

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// Create reserves size bytes of RWX memory within +/-2GiB of anchor
// (defaulting to the end of the host's .text section when anchor is 0,
// or of modulePath's on-disk image if that module has not been loaded
// into this process yet) and installs it as the pool's backing block,
// with a releaser that frees it back to the OS on Close.
func (p *VeneerPool) Create(size, anchor uint64, modulePath string) error {
	if size == 0 {
		fatalf(p.logger, "cannot create a trampoline pool with a zero size")
		return fmt.Errorf("trampoline: pool size must be non-zero")
	}
	anchor, err := resolveAnchor(anchor, modulePath)
	if err != nil {
		fatalf(p.logger, "no anchor available and none supplied: %v", err)
		return err
	}
	granularity := allocationGranularity()
	base, ok := findFreeRegion(windowsRegionQuerier{}, granularity, anchor, size)
	if !ok {
		fatalf(p.logger, "no free region within 2GiB of anchor %#x for %d bytes", anchor, size)
		return fmt.Errorf("trampoline: no free region near %#x for %d bytes", anchor, size)
	}
	p.Install(base, size, func(b, s uint64) {
		if b == 0 {
			return
		}
		if err := windows.VirtualFree(uintptr(b), 0, windows.MEM_RELEASE); err != nil {
			p.logger.Logf("VirtualFree(%#x) failed: %v", b, err)
		}
	})
	return nil
}

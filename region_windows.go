//go:build windows

package trampoline

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// windowsRegionQuerier backs findFreeRegion with real VirtualQuery /
// VirtualAlloc calls.
type windowsRegionQuerier struct{}

func (windowsRegionQuerier) query(addr uint64) (regionInfo, bool) {
	var mbi windows.MemoryBasicInformation
	err := windows.VirtualQuery(uintptr(addr), &mbi, unsafe.Sizeof(mbi))
	if err != nil {
		return regionInfo{}, false
	}
	state := regionCommitted
	switch mbi.State {
	case windows.MEM_FREE:
		state = regionFree
	case windows.MEM_RESERVE:
		state = regionReserved
	case windows.MEM_COMMIT:
		state = regionCommitted
	}
	return regionInfo{base: uint64(mbi.BaseAddress), size: uint64(mbi.RegionSize), state: state}, true
}

func (windowsRegionQuerier) reserveCommit(addr, size uint64) (uint64, bool) {
	out, err := windows.VirtualAlloc(uintptr(addr), uintptr(size), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_EXECUTE_READWRITE)
	if err != nil || out == 0 {
		return 0, false
	}
	return uint64(out), true
}

func allocationGranularity() uint64 {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	return uint64(info.AllocationGranularity)
}

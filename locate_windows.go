//go:build windows

package trampoline

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/nullhaus/trampoline/internal/pehdr"
)

// defaultAnchor is base + end of the .text section of the current
// process's main module, falling back to base + SizeOfImage when no
// section is named .text.
func defaultAnchor() (uint64, error) {
	h, err := windows.GetModuleHandle("")
	if err != nil {
		return 0, fmt.Errorf("trampoline: GetModuleHandle: %w", err)
	}
	base := uint64(h)
	nt, err := pehdr.Parse(pehdr.MemReader(uintptr(base)))
	if err != nil {
		return 0, fmt.Errorf("trampoline: parsing host module headers: %w", err)
	}
	return base + uint64(pehdr.TextEnd(pehdr.MemReader(uintptr(base)), nt)), nil
}

// resolveAnchor picks the anchor pool.Create should search around: the
// caller-supplied one if given, otherwise the current process's own
// .text end, unless modulePath names a PE image that has not been
// loaded into this process yet, in which case its on-disk headers are
// read instead — the module a caller intends to patch isn't mapped
// yet, so GetModuleHandle can't see it.
func resolveAnchor(anchor uint64, modulePath string) (uint64, error) {
	if anchor != 0 {
		return anchor, nil
	}
	if modulePath != "" {
		if _, err := windows.GetModuleHandle(modulePath); err != nil {
			return pehdr.ModuleAnchor(modulePath)
		}
	}
	return defaultAnchor()
}

// Locate resolves an exported function's address in a named module
// ("" for the current process's main module). It is a convenience for
// building patch sites and destinations out of symbol names instead of
// raw addresses; the PDB-backed symbol reader this toolkit also ships
// is a separate, out-of-scope subsystem for anything Locate can't
// answer from the export table alone.
func Locate(moduleName, exportName string) (uint64, error) {
	h, err := windows.GetModuleHandle(moduleName)
	if err != nil {
		return 0, fmt.Errorf("trampoline: GetModuleHandle(%q): %w", moduleName, err)
	}
	base := uint64(h)
	r := pehdr.MemReader(uintptr(base))
	nt, err := pehdr.Parse(r)
	if err != nil {
		return 0, fmt.Errorf("trampoline: parsing %q headers: %w", moduleName, err)
	}
	rva, ok := pehdr.ResolveExport(r, nt)(exportName)
	if !ok {
		return 0, fmt.Errorf("trampoline: export %q not found in %q", exportName, moduleName)
	}
	return base + uint64(rva), nil
}

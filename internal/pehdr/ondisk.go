package pehdr

import (
	"debug/pe"
	"fmt"
)

// ModuleAnchor opens the PE file at path and returns the preferred load
// address plus the end of its .text section — the same anchor
// defaultAnchor computes from a live module, but for the case where the
// module a caller intends to patch has not been loaded into this
// process yet, so there is no module handle to read it from. This is
// the on-disk counterpart to MemReader, using the standard library's
// debug/pe the way the teacher's own symbol reader does for files it
// has not mapped.
func ModuleAnchor(path string) (uint64, error) {
	f, err := pe.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var imageBase uint64
	switch opt := f.OptionalHeader.(type) {
	case *pe.OptionalHeader64:
		imageBase = opt.ImageBase
	case *pe.OptionalHeader32:
		imageBase = uint64(opt.ImageBase)
	default:
		return 0, fmt.Errorf("pehdr: %s: unrecognized optional header", path)
	}

	for _, s := range f.Sections {
		if s.Name == ".text" {
			return imageBase + uint64(s.VirtualAddress) + uint64(s.VirtualSize), nil
		}
	}
	return 0, errNotPE(".text section not found in " + path)
}

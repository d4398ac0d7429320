package pehdr

import (
	"encoding/binary"
	"testing"
)

// byteReader is a Reader backed by an ordinary Go byte slice, standing
// in for a loaded module's memory the same way MemReader would read it,
// but addressable and buildable from a test without touching real
// process memory.
type byteReader []byte

func (b byteReader) ReadAt(rva uint32, n int) []byte {
	if n <= 0 || int(rva)+n > len(b) {
		return nil
	}
	return b[rva : int(rva)+n]
}

func putU16(b []byte, off int, v uint16) { binary.LittleEndian.PutUint16(b[off:], v) }
func putU32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }
func putU64(b []byte, off int, v uint64) { binary.LittleEndian.PutUint64(b[off:], v) }

// buildSyntheticPE lays out a minimal but structurally valid 64-bit PE
// image in a flat buffer addressed by RVA, with one .text section and a
// one-entry export table exporting "DoWork" at RVA exportTarget.
func buildSyntheticPE(exportTarget uint32) []byte {
	const (
		lfanew        = 0x80
		fileHdrOff    = lfanew + 4
		optHdrOff     = fileHdrOff + 20
		optHdrSize    = 240
		sectionOff    = optHdrOff + optHdrSize
		textVA        = 0x1000
		textSize      = 0x1000
		exportDirRVA  = 0x3000
		addrFuncs     = 0x3100
		addrNames     = 0x3110
		addrOrdinals  = 0x3120
		exportNameRVA = 0x3200
	)
	buf := make([]byte, 0x3300)

	// DOS header.
	putU16(buf, 0, dosMagic)
	putU32(buf, 60, lfanew)

	// NT signature.
	putU32(buf, lfanew, ntMagic)

	// File header.
	putU16(buf, fileHdrOff+0, 0x8664) // IMAGE_FILE_MACHINE_AMD64
	putU16(buf, fileHdrOff+2, 1)      // NumberOfSections
	putU16(buf, fileHdrOff+16, optHdrSize)
	putU16(buf, fileHdrOff+18, 0x22) // Characteristics

	// Optional header.
	putU16(buf, optHdrOff+0, 0x20b) // PE32+
	putU32(buf, optHdrOff+16, textVA)
	putU64(buf, optHdrOff+24, 0x140000000)
	putU32(buf, optHdrOff+56, 0x5000) // SizeOfImage
	putU32(buf, optHdrOff+60, 0x400)  // SizeOfHeaders
	putU32(buf, optHdrOff+108, 16)    // NumberOfRvaAndSizes
	// DataDirectory[0] = export table.
	putU32(buf, optHdrOff+112, exportDirRVA)
	putU32(buf, optHdrOff+116, 0x200)

	// Section header: .text
	copy(buf[sectionOff:sectionOff+8], ".text")
	putU32(buf, sectionOff+8, textSize)
	putU32(buf, sectionOff+12, textVA)

	// Export directory.
	putU32(buf, exportDirRVA+24, 1) // NumberOfNames
	putU32(buf, exportDirRVA+28, addrFuncs)
	putU32(buf, exportDirRVA+32, addrNames)
	putU32(buf, exportDirRVA+36, addrOrdinals)

	putU32(buf, addrNames, exportNameRVA)
	putU16(buf, addrOrdinals, 0)
	putU32(buf, addrFuncs, exportTarget)
	copy(buf[exportNameRVA:], "DoWork\x00")

	return buf
}

func TestParse_ReadsHeaders(t *testing.T) {
	r := byteReader(buildSyntheticPE(0x1050))
	nt, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if nt.FileHeader.NumberOfSections != 1 {
		t.Fatalf("NumberOfSections = %d, want 1", nt.FileHeader.NumberOfSections)
	}
	if nt.OptionalHeader.ImageBase != 0x140000000 {
		t.Fatalf("ImageBase = %#x, want 0x140000000", nt.OptionalHeader.ImageBase)
	}
	if nt.OptionalHeader.SizeOfImage != 0x5000 {
		t.Fatalf("SizeOfImage = %#x, want 0x5000", nt.OptionalHeader.SizeOfImage)
	}
}

func TestParse_RejectsBadDOSSignature(t *testing.T) {
	buf := buildSyntheticPE(0x1050)
	buf[0] = 0
	if _, err := Parse(byteReader(buf)); err == nil {
		t.Fatalf("expected an error for a corrupted DOS signature")
	}
}

func TestSections_FindsText(t *testing.T) {
	r := byteReader(buildSyntheticPE(0x1050))
	nt, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	sections := Sections(r, nt)
	if len(sections) != 1 {
		t.Fatalf("len(sections) = %d, want 1", len(sections))
	}
	s, ok := FindSection(sections, ".text")
	if !ok {
		t.Fatalf("expected to find .text")
	}
	if s.VirtualAddress != 0x1000 || s.VirtualSize != 0x1000 {
		t.Fatalf("unexpected .text section: %+v", s)
	}
	if _, ok := FindSection(sections, ".rdata"); ok {
		t.Fatalf("did not expect to find .rdata")
	}
}

func TestTextEnd_SumsAddressAndSize(t *testing.T) {
	r := byteReader(buildSyntheticPE(0x1050))
	nt, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got, want := TextEnd(r, nt), uint32(0x2000); got != want {
		t.Fatalf("TextEnd = %#x, want %#x", got, want)
	}
}

func TestResolveExport_FindsAndMissesByName(t *testing.T) {
	r := byteReader(buildSyntheticPE(0x1050))
	nt, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	resolve := ResolveExport(r, nt)

	rva, ok := resolve("DoWork")
	if !ok || rva != 0x1050 {
		t.Fatalf("resolve(DoWork) = (%#x,%v), want (0x1050,true)", rva, ok)
	}
	if _, ok := resolve("NoSuchExport"); ok {
		t.Fatalf("expected a miss for an export that does not exist")
	}
}

func TestResolveExport_NoExportDirectory(t *testing.T) {
	buf := buildSyntheticPE(0x1050)
	// Zero out the export data directory entry.
	putU32(buf, 0x98+112, 0)
	putU32(buf, 0x98+116, 0)
	r := byteReader(buf)
	nt, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := ResolveExport(r, nt)("DoWork"); ok {
		t.Fatalf("expected no resolution when the export directory is absent")
	}
}

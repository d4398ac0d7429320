package trampoline

import (
	"encoding/binary"
	"math"
)

// branchKind selects the opcode/ModRM byte for the four Write* flavors.
type branchKind struct {
	shape veneerShape
	// opcode is used for the 5-byte form (0xE9 JMP / 0xE8 CALL).
	opcode byte
	// modrm is used for the 6-byte form (0x25 JMP / 0x15 CALL), always
	// preceded by 0xFF.
	modrm byte
}

var (
	kindJump5 = branchKind{shape: veneer5, opcode: 0xE9}
	kindCall5 = branchKind{shape: veneer5, opcode: 0xE8}
	kindJump6 = branchKind{shape: veneer6, modrm: 0x25}
	kindCall6 = branchKind{shape: veneer6, modrm: 0x15}
)

// Handle describes one installed patch: the idiomatic-Go return value
// that supplements the bare prior target the four-entry v-table
// exposes at the ABI boundary.
type Handle struct {
	Site        uint64
	Dst         uint64
	Veneer      uint64
	PriorTarget uint64
}

// Patcher selects or allocates the right veneer for a destination,
// writes its body into the pool, and rewrites a patch site to branch
// through it under a temporary protection change.
type Patcher struct {
	pool      *VeneerPool
	index     *veneerIndex
	protector protector
	logger    Logger
}

// NewPatcher builds a Patcher over pool, writing patch sites through p.
func NewPatcher(pool *VeneerPool, p protector) *Patcher {
	return &Patcher{pool: pool, index: newVeneerIndex(), protector: p, logger: defaultLogger}
}

// SetLogger overrides the diagnostic sink; nil is ignored.
func (pt *Patcher) SetLogger(l Logger) {
	if l != nil {
		pt.logger = l
	}
}

// WriteBranch5 installs a 5-byte relative JMP at site through a
// 5-veneer targeting dst, returning the address execution would have
// continued at had site not been patched (0 if site was a fresh,
// NOP-filled slot).
func (pt *Patcher) WriteBranch5(site, dst uint64) uint64 { return pt.write5(site, dst, kindJump5).PriorTarget }

// WriteCall5 is WriteBranch5 with opcode 0xE8 (CALL) instead of 0xE9.
func (pt *Patcher) WriteCall5(site, dst uint64) uint64 { return pt.write5(site, dst, kindCall5).PriorTarget }

// WriteBranch6 installs a 6-byte JMP [RIP+disp] at site whose
// displacement points at a 6-veneer holding dst.
func (pt *Patcher) WriteBranch6(site, dst uint64) uint64 { return pt.write6(site, dst, kindJump6).PriorTarget }

// WriteCall6 is WriteBranch6 with ModR/M 0x15 (CALL) instead of 0x25.
func (pt *Patcher) WriteCall6(site, dst uint64) uint64 { return pt.write6(site, dst, kindCall6).PriorTarget }

// Handle variants of the four operations above, for callers that want
// the full picture (veneer address, resolved prior target) rather than
// just the bare v-table return value.
func (pt *Patcher) WriteBranch5Handle(site, dst uint64) Handle { return pt.write5(site, dst, kindJump5) }
func (pt *Patcher) WriteCall5Handle(site, dst uint64) Handle   { return pt.write5(site, dst, kindCall5) }
func (pt *Patcher) WriteBranch6Handle(site, dst uint64) Handle { return pt.write6(site, dst, kindJump6) }
func (pt *Patcher) WriteCall6Handle(site, dst uint64) Handle   { return pt.write6(site, dst, kindCall6) }

func (pt *Patcher) veneerFor(shape veneerShape, dst uint64) uint64 {
	if addr, ok := pt.index.lookup(shape, dst); ok {
		return addr
	}
	addr := pt.pool.Allocate(shape.size())
	var body []byte
	if shape == veneer5 {
		body = encodeVeneer5(dst)
	} else {
		body = encodeVeneer6(dst)
	}
	// Pool memory is always RWX; no protection flip needed here, only
	// at the patch site. Written before the site is touched so a
	// concurrent observer (against contract, but cheap to guard against
	// anyway) never sees a JMP into unfinished veneer memory.
	pokeBytes(addr, body)
	pt.index.record(shape, dst, addr)
	return addr
}

// computeDisp32 returns to-from as a signed 32-bit displacement, or
// false if it does not fit. Split out from write5/write6 so the range
// check can be exercised directly without needing two real allocations
// genuinely 2GiB apart.
func computeDisp32(from, to uint64) (int32, bool) {
	diff := int64(to) - int64(from)
	if diff < math.MinInt32 || diff > math.MaxInt32 {
		return 0, false
	}
	return int32(diff), true
}

func (pt *Patcher) write5(site, dst uint64, kind branchKind) Handle {
	if isDebug {
		pt.logger.Logf("write5 site=%#x dst=%#x before=%s", site, dst, describeSite(site, 5))
	}
	prior := pt.priorTarget(site, 5)
	veneer := pt.veneerFor(kind.shape, dst)
	disp, ok := computeDisp32(site+5, veneer)
	if !ok {
		fatalf(pt.logger, "displacement overflow: site=%#x veneer=%#x", site, veneer)
		return Handle{Site: site, Dst: dst, Veneer: veneer, PriorTarget: prior}
	}
	buf := make([]byte, 5)
	buf[0] = kind.opcode
	binary.LittleEndian.PutUint32(buf[1:], uint32(disp))
	if err := withWritable(pt.protector, site, buf); err != nil {
		pt.logger.Logf("protection change failed at %#x, patch skipped: %v", site, err)
		return Handle{Site: site, Dst: dst, Veneer: veneer, PriorTarget: prior}
	}
	return Handle{Site: site, Dst: dst, Veneer: veneer, PriorTarget: prior}
}

func (pt *Patcher) write6(site, dst uint64, kind branchKind) Handle {
	if isDebug {
		pt.logger.Logf("write6 site=%#x dst=%#x before=%s", site, dst, describeSite(site, 6))
	}
	prior := pt.priorTarget(site, 6)
	veneer := pt.veneerFor(kind.shape, dst)
	disp, ok := computeDisp32(site+6, veneer)
	if !ok {
		fatalf(pt.logger, "displacement overflow: site=%#x veneer=%#x", site, veneer)
		return Handle{Site: site, Dst: dst, Veneer: veneer, PriorTarget: prior}
	}
	buf := make([]byte, 6)
	buf[0] = 0xFF
	buf[1] = kind.modrm
	binary.LittleEndian.PutUint32(buf[2:], uint32(disp))
	if err := withWritable(pt.protector, site, buf); err != nil {
		pt.logger.Logf("protection change failed at %#x, patch skipped: %v", site, err)
		return Handle{Site: site, Dst: dst, Veneer: veneer, PriorTarget: prior}
	}
	return Handle{Site: site, Dst: dst, Veneer: veneer, PriorTarget: prior}
}

// priorTarget recovers the branch target that was in place at site
// before this patch: a first byte of 0x90 means "fresh slot,
// no prior target"; otherwise the last four bytes of the n-byte slot
// are a little-endian signed 32-bit displacement added to site+n. If
// the recovered address is itself one of our own veneers (a repatch of
// an already-hooked site), resolve through it to the destination it
// ultimately forwards to.
func (pt *Patcher) priorTarget(site uint64, n int) uint64 {
	if peekByte(site) == 0x90 {
		return 0
	}
	disp := int32(peekUint32(site + uint64(n) - 4))
	raw := uint64(int64(site) + int64(n) + int64(disp))
	return pt.index.resolve(raw)
}

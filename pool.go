package trampoline

import "fmt"

const veneerFillByte = 0xCC

// Releaser is called with the base and size of a block the pool no
// longer owns, exactly once: on VeneerPool.Close, or when a subsequent
// Install replaces the block. A caller-supplied block used in tests
// can pass a no-op releaser; a block obtained from the OS passes one
// that frees it back.
type Releaser func(base, size uint64)

// VeneerPool is a contiguous, committed, read-write-execute region plus
// a bump pointer. It hands out veneer bodies and never frees them
// individually; the whole block is released at once.
type VeneerPool struct {
	base     uint64
	capacity uint64
	used     uint64
	release  Releaser
	logger   Logger
}

// NewVeneerPool returns an empty, uninstalled pool. Call Install or
// Create before allocating from it.
func NewVeneerPool() *VeneerPool {
	return &VeneerPool{logger: defaultLogger}
}

// SetLogger overrides the diagnostic sink; nil is ignored.
func (p *VeneerPool) SetLogger(l Logger) {
	if l != nil {
		p.logger = l
	}
}

// Install adopts [base, base+size) as the pool's backing memory. Any
// previously installed block is released through its own releaser
// first. The new block is filled with 0xCC so that stray control flow
// into unused veneer space halts under a debugger rather than running
// off into whatever garbage was there before.
func (p *VeneerPool) Install(base, size uint64, release Releaser) {
	if p.release != nil {
		p.release(p.base, p.capacity)
	}
	fillBytes(base, int(size), veneerFillByte)
	p.base = base
	p.capacity = size
	p.used = 0
	p.release = release
	p.logStats()
}

// Allocate bump-allocates n bytes from the pool. Exhaustion is
// ConfigurationFatal: it means the pool was sized wrong by whoever
// configured it, and there is no way to grow it in place since callers
// already hold displacement-checked pointers into it.
func (p *VeneerPool) Allocate(n uint64) uint64 {
	if n > p.capacity-p.used {
		fatalf(p.logger, "veneer pool exhausted: need %d bytes, %d free of %d", n, p.capacity-p.used, p.capacity)
		return 0
	}
	addr := p.base + p.used
	p.used += n
	p.logStats()
	return addr
}

// Base returns the pool's backing address, or 0 if uninstalled.
func (p *VeneerPool) Base() uint64 { return p.base }

// Capacity returns the total size of the pool's backing block.
func (p *VeneerPool) Capacity() uint64 { return p.capacity }

// AllocatedSize returns the number of bytes handed out so far.
func (p *VeneerPool) AllocatedSize() uint64 { return p.used }

// FreeSize returns Capacity - AllocatedSize.
func (p *VeneerPool) FreeSize() uint64 { return p.capacity - p.used }

// Close releases the current block through its releaser, if any, and
// resets the pool to empty. Safe to call on an uninstalled pool.
func (p *VeneerPool) Close() {
	if p.release != nil {
		p.release(p.base, p.capacity)
		p.release = nil
	}
	p.base, p.capacity, p.used = 0, 0, 0
}

func (p *VeneerPool) String() string {
	return fmt.Sprintf("VeneerPool{base:%#x cap:%d used:%d}", p.base, p.capacity, p.used)
}

// logStats emits a used/capacity line after every Install and
// Allocate, mirroring the debug-level stats line the trampoline this
// module is modeled on logs at the same two points.
func (p *VeneerPool) logStats() {
	var pct float64
	if p.capacity != 0 {
		pct = float64(p.used) / float64(p.capacity) * 100
	}
	debugf(p.logger, "veneer pool => %dB / %dB (%05.2f%%)", p.used, p.capacity, pct)
}

package trampoline

// VTable is the stable four-entry ABI surface other subsystems in the
// host — in particular the plugin adapter, out of scope here — link
// against. Internally it is backed by a single *Patcher; the narrow
// (u64, u64) -> u64 signatures are the fixed ABI boundary, the richer
// Handle-returning methods on Patcher are the Go-idiomatic API this
// wraps.
type VTable struct {
	WriteBranch5 func(site, dst uint64) uint64
	WriteBranch6 func(site, dst uint64) uint64
	WriteCall5   func(site, dst uint64) uint64
	WriteCall6   func(site, dst uint64) uint64
}

// NewVTable adapts pt to the four-entry ABI surface.
func NewVTable(pt *Patcher) VTable {
	return VTable{
		WriteBranch5: pt.WriteBranch5,
		WriteBranch6: pt.WriteBranch6,
		WriteCall5:   pt.WriteCall5,
		WriteCall6:   pt.WriteCall6,
	}
}

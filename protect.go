package trampoline

// protector flips page protection for a byte range and restores it.
// This is the single seam through which the Patcher ever writes to a
// patch site's page, per the "encapsulate all unsafe writes behind one
// helper" design note. Production wiring backs it with VirtualProtect;
// tests back it with a fake that either succeeds (site memory is an
// ordinary writable Go slice, no real flip needed) or fails on demand,
// to exercise the ProtectionFailure path.
type protector interface {
	makeWritable(addr uint64, size int) (restore func(), err error)
}

// withWritable makes [addr, addr+len(data)) writable, writes data, and
// restores the original protection, all inside p. If p fails to make
// the range writable, the write is skipped and the error is returned;
// callers treat this as ProtectionFailure, a silent no-op rather than a
// fatal condition.
func withWritable(p protector, addr uint64, data []byte) error {
	restore, err := p.makeWritable(addr, len(data))
	if err != nil {
		return err
	}
	pokeBytes(addr, data)
	restore()
	return nil
}

package trampoline

// defaultPoolSize is one allocation granularity's worth of veneer
// space, comfortably enough for the handful of distinct destinations a
// typical patch set targets.
const defaultPoolSize = 64 * 1024

// Config configures the process-wide singleton. A zero Config picks
// the defaults: a pool of defaultPoolSize bytes, anchored at the end of
// the host's .text section. (Create itself has no size default: a zero
// size passed to it is fatal.)
type Config struct {
	// PoolSize is the size of the veneer pool in bytes. 0 means
	// defaultPoolSize.
	PoolSize uint64
	// Anchor is the address the pool is placed within +/-2GiB of. 0
	// means the end of the host module's .text section.
	Anchor uint64
	// ModulePath is consulted when Anchor is 0 and the module a caller
	// intends to patch has not been loaded into this process yet, so
	// its .text end can't be read from a live module handle. Ignored
	// when Anchor is non-zero.
	ModulePath string
	// Logger receives diagnostic strings; nil means a stderr logger.
	Logger Logger
}

//go:build windows

package trampoline

import "sync"

var (
	instance     *Patcher
	instancePool *VeneerPool
	instanceOnce sync.Once
	instanceErr  error
)

// Default returns the process-wide Patcher singleton, constructing it
// on first call with a zero Config. Like the rest of this package, it
// is only safe to call before other threads observe the code being
// patched.
func Default() *Patcher {
	instanceOnce.Do(func() {
		instancePool, instance, instanceErr = newSingleton(Config{})
	})
	if instanceErr != nil {
		fatalf(defaultLogger, "trampoline: singleton init failed: %v", instanceErr)
	}
	return instance
}

// NewSingleton constructs the process-wide Patcher singleton with an
// explicit Config, if it has not already been constructed. Subsequent
// calls, including from Default, return the same instance regardless
// of the Config passed here.
func NewSingleton(cfg Config) (*Patcher, error) {
	instanceOnce.Do(func() {
		instancePool, instance, instanceErr = newSingleton(cfg)
	})
	return instance, instanceErr
}

func newSingleton(cfg Config) (*VeneerPool, *Patcher, error) {
	size := cfg.PoolSize
	if size == 0 {
		size = defaultPoolSize
	}
	pool := NewVeneerPool()
	if cfg.Logger != nil {
		pool.SetLogger(cfg.Logger)
	}
	if err := pool.Create(size, cfg.Anchor, cfg.ModulePath); err != nil {
		return nil, nil, err
	}
	pt := NewPatcher(pool, newProtector())
	if cfg.Logger != nil {
		pt.SetLogger(cfg.Logger)
	}
	return pool, pt, nil
}

// DefaultVTable returns the ABI surface over the process-wide Patcher
// singleton, constructing it on first call.
func DefaultVTable() VTable {
	return NewVTable(Default())
}

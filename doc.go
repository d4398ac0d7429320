// Package trampoline implements a near-region veneer pool and inline
// branch patcher for 64-bit Windows PE processes.
//
// A patch site is a short run of executable bytes (5 or 6) that gets
// overwritten with a relative branch into a small "veneer" living in a
// pool reserved within +/-2GiB of an anchor address. The veneer then
// makes the final jump or call to a destination that may be anywhere in
// the 64-bit address space. This lets a 5-byte JMP/CALL, which can only
// encode a +/-2GiB displacement, reach a target of any distance.
//
// The package is not safe for concurrent use. Patching is expected to
// happen from a single thread, typically during process start-up before
// any other thread observes the code being patched.
package trampoline

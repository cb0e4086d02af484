//go:build !unix

package bdap

// securelock is a no-op on platforms without an mlock equivalent wired up
// here. Page locking is best effort; on these builds Decrypt proceeds
// without it.
func securelock(buf []byte) error { return nil }

// secureunlock is the no-op counterpart of securelock.
func secureunlock(buf []byte) error { return nil }

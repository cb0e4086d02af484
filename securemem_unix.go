//go:build unix

package bdap

import "golang.org/x/sys/unix"

// securelock pins buf in physical memory so it cannot be written to swap.
// Decrypt uses it around the Ed25519 seed and the derived Curve25519
// private key for the duration of the call.
func securelock(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return unix.Mlock(buf)
}

// secureunlock releases a lock taken by securelock.
func secureunlock(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return unix.Munlock(buf)
}

package bdap

import "golang.org/x/crypto/sha3"

// deriveWrapKeyIV computes the per-recipient AES-256-CTR key and IV used to
// wrap the shared secret s. It squeezes 48 bytes from SHAKE-256(Q || xpk ||
// ephemeralPk): the first 32 bytes are the key, the last 16 the IV.
func deriveWrapKeyIV(q, xpk, ephemeralPk []byte) (key [32]byte, iv [16]byte) {
	var out [48]byte
	x := sha3.NewShake256()
	x.Write(q)
	x.Write(xpk)
	x.Write(ephemeralPk)
	x.Read(out[:])
	copy(key[:], out[:32])
	copy(iv[:], out[32:48])
	return key, iv
}

// deriveBulkKeyNonce computes the AES-256-GCM key and nonce used to seal
// the plaintext, squeezing 44 bytes from SHAKE-256(s).
func deriveBulkKeyNonce(s []byte) (key [32]byte, nonce [12]byte) {
	var out [44]byte
	x := sha3.NewShake256()
	x.Write(s)
	x.Read(out[:])
	copy(key[:], out[:32])
	copy(nonce[:], out[32:44])
	return key, nonce
}

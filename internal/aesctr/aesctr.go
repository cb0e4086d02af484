// Package aesctr implements AES-256 in CTR mode over internal/aesbit's
// bit-decomposed block cipher, with a big-endian 16-byte counter.
package aesctr

import "github.com/kryptco/bdap/internal/aesbit"

// IVSize is the size in bytes of the CTR mode initial counter block.
const IVSize = 16

func ctEqFF(u byte) byte {
	v := u ^ 0xff
	return ((v | -v) >> 7) ^ 0x01
}

// incrementCounter increments the 16-byte big-endian counter ctr by one,
// wrapping on overflow, without branching on the carry.
func incrementCounter(ctr *[16]byte) {
	carry := byte(1)
	for i := 15; i >= 0; i-- {
		next := carry
		carry &= ctEqFF(ctr[i])
		ctr[i] += next
	}
}

// XORKeyStream encrypts (or, identically, decrypts) msg with the AES-256
// CTR keystream seeded by iv and key, writing the result to out. out and
// msg may be the same slice. len(out) must be >= len(msg).
func XORKeyStream(out, msg []byte, iv *[IVSize]byte, key *[aesbit.KeySize]byte) {
	var t [16]byte
	copy(t[:], iv[:])

	var stream [16]byte
	for len(msg) > 0 {
		blockLen := 16
		if len(msg) < blockLen {
			blockLen = len(msg)
		}
		aesbit.Encrypt(&stream, &t, key)
		for i := 0; i < blockLen; i++ {
			out[i] = msg[i] ^ stream[i]
		}
		out = out[blockLen:]
		msg = msg[blockLen:]
		incrementCounter(&t)
	}
}

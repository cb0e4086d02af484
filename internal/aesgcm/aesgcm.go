// Package aesgcm implements AES-256-GCM authenticated encryption over
// internal/aesbit's block cipher, with a bit-serial GHASH (GF(2^128)
// multiplication done one bit at a time rather than via a lookup table).
package aesgcm

import (
	"crypto/subtle"
	"fmt"

	"github.com/kryptco/bdap/internal/aesbit"
)

// NonceSize is the size in bytes of the GCM nonce this package expects
// (the common 96-bit case).
const NonceSize = 12

// TagSize is the size in bytes of the GCM authentication tag.
const TagSize = 16

func bigEndianStore32(x []byte, u uint32) {
	x[3] = byte(u)
	x[2] = byte(u >> 8)
	x[1] = byte(u >> 16)
	x[0] = byte(u >> 24)
}

func bigEndianStore64(x []byte, u uint64) {
	for i := 7; i >= 0; i-- {
		x[i] = byte(u)
		u >>= 8
	}
}

// addMul computes a = (a xor x) * y in GF(2^128), reduced by
// x^128+x^7+x^2+x+1, with the bit-reflection GHASH requires.
func addMul(a *[16]byte, x []byte, y *[16]byte) {
	for i := range x {
		a[i] ^= x[i]
	}

	var aBits, yBits [128]byte
	for i := 0; i < 128; i++ {
		aBits[i] = (a[i>>3] >> uint(7-(i&7))) & 1
		yBits[i] = (y[i>>3] >> uint(7-(i&7))) & 1
	}

	var axy [256]byte
	for i := 0; i < 128; i++ {
		for j := 0; j < 128; j++ {
			axy[i+j] ^= aBits[i] & yBits[j]
		}
	}

	for i := 127; i >= 0; i-- {
		axy[i] ^= axy[i+128]
		axy[i+1] ^= axy[i+128]
		axy[i+2] ^= axy[i+128]
		axy[i+7] ^= axy[i+128]
		axy[i+128] ^= axy[i+128]
	}

	*a = [16]byte{}
	for i := 0; i < 128; i++ {
		a[i>>3] |= axy[i] << uint(7-(i&7))
	}
}

// Seal encrypts plaintext with AES-256-GCM under key and nonce,
// authenticating aad alongside it, and returns ciphertext||tag.
func Seal(key *[aesbit.KeySize]byte, nonce *[NonceSize]byte, plaintext, aad []byte) []byte {
	var z, h [16]byte
	aesbit.Encrypt(&h, &z, key)

	var j [16]byte
	copy(j[:12], nonce[:])
	index := uint32(1)
	bigEndianStore32(j[12:], index)
	var t [16]byte
	aesbit.Encrypt(&t, &j, key)

	var accum [16]byte
	aadRest := aad
	for len(aadRest) > 0 {
		n := 16
		if len(aadRest) < n {
			n = len(aadRest)
		}
		addMul(&accum, aadRest[:n], &h)
		aadRest = aadRest[n:]
	}

	out := make([]byte, len(plaintext)+TagSize)
	c := out[:len(plaintext)]
	msg := plaintext
	dst := c
	for len(msg) > 0 {
		n := 16
		if len(msg) < n {
			n = len(msg)
		}
		index++
		bigEndianStore32(j[12:], index)
		var stream [16]byte
		aesbit.Encrypt(&stream, &j, key)
		for i := 0; i < n; i++ {
			dst[i] = msg[i] ^ stream[i]
		}
		addMul(&accum, dst[:n], &h)
		msg = msg[n:]
		dst = dst[n:]
	}

	var finalBlock [16]byte
	bigEndianStore64(finalBlock[:8], 8*uint64(len(aad)))
	bigEndianStore64(finalBlock[8:], 8*uint64(len(plaintext)))
	addMul(&accum, finalBlock[:], &h)

	for i := 0; i < TagSize; i++ {
		out[len(plaintext)+i] = t[i] ^ accum[i]
	}
	return out
}

// Open decrypts ciphertext||tag with AES-256-GCM under key and nonce,
// verifying aad and the tag before returning any plaintext. It returns an
// error if the tag does not verify, and never writes partial plaintext in
// that case.
func Open(key *[aesbit.KeySize]byte, nonce *[NonceSize]byte, sealed, aad []byte) ([]byte, error) {
	if len(sealed) < TagSize {
		return nil, fmt.Errorf("aesgcm: ciphertext shorter than tag")
	}
	ciphertext := sealed[:len(sealed)-TagSize]
	wantTag := sealed[len(sealed)-TagSize:]

	var z, h [16]byte
	aesbit.Encrypt(&h, &z, key)

	var j [16]byte
	copy(j[:12], nonce[:])
	index := uint32(1)
	bigEndianStore32(j[12:], index)
	var t [16]byte
	aesbit.Encrypt(&t, &j, key)

	var accum [16]byte
	aadRest := aad
	for len(aadRest) > 0 {
		n := 16
		if len(aadRest) < n {
			n = len(aadRest)
		}
		addMul(&accum, aadRest[:n], &h)
		aadRest = aadRest[n:]
	}

	rest := ciphertext
	for len(rest) > 0 {
		n := 16
		if len(rest) < n {
			n = len(rest)
		}
		addMul(&accum, rest[:n], &h)
		rest = rest[n:]
	}

	var finalBlock [16]byte
	bigEndianStore64(finalBlock[:8], 8*uint64(len(aad)))
	bigEndianStore64(finalBlock[8:], 8*uint64(len(ciphertext)))
	addMul(&accum, finalBlock[:], &h)

	var gotTag [16]byte
	for i := range gotTag {
		gotTag[i] = t[i] ^ accum[i]
	}

	if subtle.ConstantTimeCompare(gotTag[:], wantTag) != 1 {
		return nil, fmt.Errorf("aesgcm: message authentication failed")
	}

	plaintext := make([]byte, len(ciphertext))
	msg := ciphertext
	dst := plaintext
	for len(msg) > 0 {
		n := 16
		if len(msg) < n {
			n = len(msg)
		}
		index++
		bigEndianStore32(j[12:], index)
		var stream [16]byte
		aesbit.Encrypt(&stream, &j, key)
		for i := 0; i < n; i++ {
			dst[i] = msg[i] ^ stream[i]
		}
		msg = msg[n:]
		dst = dst[n:]
	}

	return plaintext, nil
}

// Package ed2x converts between Ed25519 identity keys and their Curve25519
// Diffie-Hellman counterparts, following the approach shipped in
// libsodium's crypto_sign_ed25519_sk_to_curve25519 / _pk_to_curve25519.
package ed2x

import (
	"crypto/sha512"
	"fmt"

	"github.com/kryptco/bdap/internal/edwards25519"
	"github.com/kryptco/bdap/internal/field"
)

// SeedToX25519Private derives the Curve25519 private scalar from a 32-byte
// Ed25519 seed: SHA-512 the seed, clamp the first 32 bytes of the digest.
// This matches libsodium's crypto_sign_ed25519_sk_to_curve25519, not the
// alternative of reusing the seed's bytes directly.
func SeedToX25519Private(out *[32]byte, seed *[32]byte) {
	h := sha512.Sum512(seed[:])
	h[0] &= 0xf8
	h[31] &= 0x7f
	h[31] |= 0x40
	copy(out[:], h[:32])
}

// EdPublicKeyFromSeed derives the Ed25519 public key for a 32-byte seed:
// SHA-512 and clamp the seed into a scalar, then multiply the base point.
func EdPublicKeyFromSeed(out *[32]byte, seed *[32]byte) {
	h := sha512.Sum512(seed[:])
	h[0] &= 0xf8
	h[31] &= 0x7f
	h[31] |= 0x40
	var scalar [32]byte
	copy(scalar[:], h[:32])

	a := edwards25519.ScalarMultBase(&scalar)
	*out = a.Encode()
}

// PublicToX25519 converts an Ed25519 public key to its Curve25519
// counterpart via the birational map u = (1+y)/(1-y). It rejects public
// keys that are small-order, fail to decode, or fall outside the main
// subgroup; none of those are usable DH inputs.
func PublicToX25519(out *[32]byte, edPublic *[32]byte) error {
	if edwards25519.HasSmallOrder(edPublic) {
		return fmt.Errorf("ed2x: public key has small order")
	}
	var a edwards25519.ProjP3
	if !a.Decode(edPublic) {
		return fmt.Errorf("ed2x: public key does not decode to a curve point")
	}
	if !edwards25519.IsOnMainSubgroup(&a) {
		return fmt.Errorf("ed2x: public key is not in the main subgroup")
	}

	var one, oneMinusY, onePlusY, x field.Element
	one.One()
	oneMinusY.Sub(&one, &a.Y)
	onePlusY.Add(&one, &a.Y)
	oneMinusY.Invert(&oneMinusY)
	x.Mul(&onePlusY, &oneMinusY)

	*out = x.Bytes()
	return nil
}

// Package x25519 implements the Curve25519 Diffie-Hellman function on the
// Montgomery curve y^2 = x^3 + 486662x^2 + x, via the constant-time ladder
// from the original Curve25519 paper.
package x25519

import "github.com/kryptco/bdap/internal/field"

const (
	// ScalarSize is the size in bytes of a Curve25519 scalar (private key).
	ScalarSize = 32
	// PointSize is the size in bytes of a Curve25519 point (public key).
	PointSize = 32
)

var basepoint = [PointSize]byte{9}

// Clamp applies the Curve25519 scalar-clamping bit-clears/sets required
// before a value is used as a ladder scalar: bits 0-2 of the first byte are
// cleared, bit 7 of the last byte is cleared, bit 6 of the last byte is set.
func Clamp(scalar *[ScalarSize]byte) {
	scalar[0] &= 0xf8
	scalar[31] &= 0x7f
	scalar[31] |= 0x40
}

// DH computes q = [n]p, the Curve25519 scalar multiplication of point p by
// scalar n, writing the result to q. n is clamped internally; the caller's
// array is not modified. DH reports false if p encodes a point of small
// order (0, 1, or any point whose order divides 8), rejecting it before the
// ladder runs rather than returning a low-entropy shared secret.
func DH(q *[PointSize]byte, n *[ScalarSize]byte, p *[PointSize]byte) bool {
	if field.HasSmallOrder(p) {
		return false
	}

	var e [ScalarSize]byte
	e = *n
	Clamp(&e)

	var x1, x2, z2, x3, z3, t0, t1 field.Element
	x1.SetBytes(p[:])
	x2.One()
	z2.Zero()
	x3.Set(&x1)
	z3.One()

	var swap int32
	for pos := 254; pos >= 0; pos-- {
		b := int32((e[pos>>3] >> uint(pos&7)) & 1)
		swap ^= b
		field.Swap(&x2, &x3, swap)
		field.Swap(&z2, &z3, swap)
		swap = b

		t0.Sub(&x3, &z3)
		t1.Sub(&x2, &z2)
		x2.Add(&x2, &z2)
		z2.Add(&x3, &z3)
		z3.Mul(&t0, &x2)
		z2.Mul(&z2, &t1)
		t0.Sqr(&t1)
		t1.Sqr(&x2)
		x3.Add(&z3, &z2)
		z2.Sub(&z3, &z2)
		x2.Mul(&t1, &t0)
		t1.Sub(&t1, &t0)
		z2.Sqr(&z2)
		z3.MulSmall(&t1, 121666)
		x3.Sqr(&x3)
		t0.Add(&t0, &z3)
		z3.Mul(&x1, &z2)
		z2.Mul(&t1, &t0)
	}
	field.Swap(&x2, &x3, swap)
	field.Swap(&z2, &z3, swap)

	z2.Invert(&z2)
	x2.Mul(&x2, &z2)
	*q = x2.Bytes()
	return true
}

// PublicKeyFromPrivate derives the Curve25519 public key for private key n.
func PublicKeyFromPrivate(q *[PointSize]byte, n *[ScalarSize]byte) bool {
	return DH(q, n, &basepoint)
}

// Filler fills buf with random bytes, or returns an error if it can't.
// Satisfied by bdap.RNG; declared locally to avoid an import cycle.
type Filler interface {
	Fill(buf []byte) error
}

// RandomKeypair draws a fresh private scalar from rng and derives the
// matching public key.
func RandomKeypair(public, private *[PointSize]byte, rng Filler) error {
	if err := rng.Fill(private[:]); err != nil {
		return err
	}
	PublicKeyFromPrivate(public, private)
	return nil
}

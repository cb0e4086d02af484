// Package field implements arithmetic in F = Z/(2^255 - 19), the base field
// of Curve25519 and its twisted Edwards form.
//
// Elements are held as ten signed int32 limbs in mixed radix 2^25.5: limbs at
// even indices carry 26 bits, limbs at odd indices carry 25 bits. The
// representation is redundant (after any operation a limb may temporarily
// exceed its nominal width) and must be normalized (its carry chain run)
// before the element is compared, serialized, or fed into an operation that
// assumes bounded limbs.
package field

// Element is a field element in radix-2^25.5, limbs[0,2,4,6,8] carry 26
// bits and limbs[1,3,5,7,9] carry 25 bits.
type Element struct {
	limbs [10]int32
}

// FromLimbs builds an Element directly from its radix-2^25.5 limb
// representation. Used only by packages that need literal curve constants
// (edwards25519's d, d2, sqrt(-1)); callers elsewhere should use SetBytes.
func FromLimbs(limbs [10]int32) Element {
	return Element{limbs: limbs}
}

// Zero sets e = 0 and returns e.
func (e *Element) Zero() *Element {
	*e = Element{}
	return e
}

// One sets e = 1 and returns e.
func (e *Element) One() *Element {
	*e = Element{limbs: [10]int32{1}}
	return e
}

// Set sets e = a and returns e.
func (e *Element) Set(a *Element) *Element {
	*e = *a
	return e
}

// Cmov sets e = src if cond == 1, leaves e unchanged if cond == 0. cond must
// be 0 or 1; behavior for any other value is undefined. The implementation
// uses arithmetic masking, never a branch on cond.
func (e *Element) Cmov(src *Element, cond int32) *Element {
	mask := -cond
	for i := range e.limbs {
		e.limbs[i] ^= mask & (e.limbs[i] ^ src.limbs[i])
	}
	return e
}

// Swap conditionally swaps e and f in constant time: if cond == 1 they are
// exchanged, if cond == 0 neither changes.
func Swap(e, f *Element, cond int32) {
	mask := -cond
	for i := range e.limbs {
		t := mask & (e.limbs[i] ^ f.limbs[i])
		e.limbs[i] ^= t
		f.limbs[i] ^= t
	}
}

// Add sets e = a + b and returns e. Result limbs are not reduced.
func (e *Element) Add(a, b *Element) *Element {
	for i := range e.limbs {
		e.limbs[i] = a.limbs[i] + b.limbs[i]
	}
	return e
}

// Sub sets e = a - b and returns e. Result limbs are not reduced.
func (e *Element) Sub(a, b *Element) *Element {
	for i := range e.limbs {
		e.limbs[i] = a.limbs[i] - b.limbs[i]
	}
	return e
}

// Neg sets e = -a and returns e.
func (e *Element) Neg(a *Element) *Element {
	var zero Element
	return e.Sub(&zero, a)
}

// carryChain order required by the radix-2^25.5 normalization proof; do not
// reorder it. A different order breaks the overflow bound used by Mul/Sqr.
var carryChain = [...][2]int{
	{0, 1}, {4, 5}, {1, 2}, {5, 6}, {2, 3}, {6, 7}, {3, 4}, {7, 8}, {4, 5}, {8, 9}, {9, 0}, {0, 1},
}

func bitsOf(limbIndex int) uint {
	if limbIndex%2 == 0 {
		return 26
	}
	return 25
}

// carryAndReduce runs the fixed carry chain over wide (pre-reduction) 64-bit
// limb sums h, folding limb 9's overflow back into limb 0 multiplied by 19
// (2^255 ≡ 19 mod p), and writes the normalized int32 limbs into e.
func (e *Element) carryAndReduce(h *[10]int64) {
	for _, step := range carryChain {
		i, j := step[0], step[1]
		var carry int64
		if i == 9 {
			// folding step 9->0: multiply the overflow by 19.
			carry = (h[9] + (1 << 24)) >> 25
			h[9] -= carry << 25
			h[0] += carry * 19
			continue
		}
		shift := bitsOf(i)
		carry = (h[i] + (int64(1) << (shift - 1))) >> shift
		h[i] -= carry << shift
		h[j] += carry
	}
	for i := range e.limbs {
		e.limbs[i] = int32(h[i])
	}
}

// Mul sets e = a * b and returns e.
func (e *Element) Mul(a, b *Element) *Element {
	a0, a1, a2, a3, a4, a5, a6, a7, a8, a9 := int64(a.limbs[0]), int64(a.limbs[1]), int64(a.limbs[2]), int64(a.limbs[3]), int64(a.limbs[4]), int64(a.limbs[5]), int64(a.limbs[6]), int64(a.limbs[7]), int64(a.limbs[8]), int64(a.limbs[9])
	b0, b1, b2, b3, b4, b5, b6, b7, b8, b9 := int64(b.limbs[0]), int64(b.limbs[1]), int64(b.limbs[2]), int64(b.limbs[3]), int64(b.limbs[4]), int64(b.limbs[5]), int64(b.limbs[6]), int64(b.limbs[7]), int64(b.limbs[8]), int64(b.limbs[9])

	b1_19 := 19 * b1
	b2_19 := 19 * b2
	b3_19 := 19 * b3
	b4_19 := 19 * b4
	b5_19 := 19 * b5
	b6_19 := 19 * b6
	b7_19 := 19 * b7
	b8_19 := 19 * b8
	b9_19 := 19 * b9

	a1_2 := 2 * a1
	a3_2 := 2 * a3
	a5_2 := 2 * a5
	a7_2 := 2 * a7
	a9_2 := 2 * a9

	var h [10]int64
	h[0] = a0*b0 + a1_2*b9_19 + a2*b8_19 + a3_2*b7_19 + a4*b6_19 + a5_2*b5_19 + a6*b4_19 + a7_2*b3_19 + a8*b2_19 + a9_2*b1_19
	h[1] = a0*b1 + a1*b0 + a2*b9_19 + a3*b8_19 + a4*b7_19 + a5*b6_19 + a6*b5_19 + a7*b4_19 + a8*b3_19 + a9*b2_19
	h[2] = a0*b2 + a1_2*b1 + a2*b0 + a3_2*b9_19 + a4*b8_19 + a5_2*b7_19 + a6*b6_19 + a7_2*b5_19 + a8*b4_19 + a9_2*b3_19
	h[3] = a0*b3 + a1*b2 + a2*b1 + a3*b0 + a4*b9_19 + a5*b8_19 + a6*b7_19 + a7*b6_19 + a8*b5_19 + a9*b4_19
	h[4] = a0*b4 + a1_2*b3 + a2*b2 + a3_2*b1 + a4*b0 + a5_2*b9_19 + a6*b8_19 + a7_2*b7_19 + a8*b6_19 + a9_2*b5_19
	h[5] = a0*b5 + a1*b4 + a2*b3 + a3*b2 + a4*b1 + a5*b0 + a6*b9_19 + a7*b8_19 + a8*b7_19 + a9*b6_19
	h[6] = a0*b6 + a1_2*b5 + a2*b4 + a3_2*b3 + a4*b2 + a5_2*b1 + a6*b0 + a7_2*b9_19 + a8*b8_19 + a9_2*b7_19
	h[7] = a0*b7 + a1*b6 + a2*b5 + a3*b4 + a4*b3 + a5*b2 + a6*b1 + a7*b0 + a8*b9_19 + a9*b8_19
	h[8] = a0*b8 + a1_2*b7 + a2*b6 + a3_2*b5 + a4*b4 + a5_2*b3 + a6*b2 + a7_2*b1 + a8*b0 + a9_2*b9_19
	h[9] = a0*b9 + a1*b8 + a2*b7 + a3*b6 + a4*b5 + a5*b4 + a6*b3 + a7*b2 + a8*b1 + a9*b0

	e.carryAndReduce(&h)
	return e
}

// Sqr sets e = a * a and returns e.
func (e *Element) Sqr(a *Element) *Element {
	return e.Mul(a, a)
}

// Sqr2 sets e = 2 * a * a and returns e, used by Edwards point doubling
// (the 2*Z^2 term). It squares and then adds the result to itself.
func (e *Element) Sqr2(a *Element) *Element {
	e.Mul(a, a)
	return e.Add(e, e)
}

// MulSmall sets e = a * c for a small constant c (used only with c = 121666,
// the Montgomery-ladder curve constant) and returns e.
func (e *Element) MulSmall(a *Element, c int32) *Element {
	var h [10]int64
	cc := int64(c)
	for i := range a.limbs {
		h[i] = int64(a.limbs[i]) * cc
	}
	e.carryAndReduce(&h)
	return e
}

func load3(b []byte) int64 {
	return int64(b[0]) | int64(b[1])<<8 | int64(b[2])<<16
}

func load4(b []byte) int64 {
	return int64(b[0]) | int64(b[1])<<8 | int64(b[2])<<16 | int64(b[3])<<24
}

// SetBytes decodes the 32-byte little-endian encoding b (the top bit is
// ignored, matching Ed25519 point decoding's convention of stripping the
// sign bit before field decode) into e and returns e.
func (e *Element) SetBytes(b []byte) *Element {
	h0 := load4(b[0:])
	h1 := load3(b[4:]) << 6
	h2 := load3(b[7:]) << 5
	h3 := load3(b[10:]) << 3
	h4 := load3(b[13:]) << 2
	h5 := load4(b[16:])
	h6 := load3(b[20:]) << 7
	h7 := load3(b[23:]) << 5
	h8 := load3(b[26:]) << 4
	h9 := (load3(b[29:]) & 0x7fffff) << 2

	carry9 := (h9 + (1 << 24)) >> 25
	h0 += carry9 * 19
	h9 -= carry9 << 25
	carry1 := (h1 + (1 << 24)) >> 25
	h2 += carry1
	h1 -= carry1 << 25
	carry3 := (h3 + (1 << 24)) >> 25
	h4 += carry3
	h3 -= carry3 << 25
	carry5 := (h5 + (1 << 24)) >> 25
	h6 += carry5
	h5 -= carry5 << 25
	carry7 := (h7 + (1 << 24)) >> 25
	h8 += carry7
	h7 -= carry7 << 25

	carry0 := (h0 + (1 << 25)) >> 26
	h1 += carry0
	h0 -= carry0 << 26
	carry2 := (h2 + (1 << 25)) >> 26
	h3 += carry2
	h2 -= carry2 << 26
	carry4 := (h4 + (1 << 25)) >> 26
	h5 += carry4
	h4 -= carry4 << 26
	carry6 := (h6 + (1 << 25)) >> 26
	h7 += carry6
	h6 -= carry6 << 26
	carry8 := (h8 + (1 << 25)) >> 26
	h9 += carry8
	h8 -= carry8 << 26

	e.limbs = [10]int32{int32(h0), int32(h1), int32(h2), int32(h3), int32(h4), int32(h5), int32(h6), int32(h7), int32(h8), int32(h9)}
	return e
}

// Bytes returns the canonical 32-byte little-endian encoding of e, fully
// reduced into [0, 2^255-19) with the top bit cleared.
func (e *Element) Bytes() [32]byte {
	h0, h1, h2, h3, h4 := int32(e.limbs[0]), int32(e.limbs[1]), int32(e.limbs[2]), int32(e.limbs[3]), int32(e.limbs[4])
	h5, h6, h7, h8, h9 := int32(e.limbs[5]), int32(e.limbs[6]), int32(e.limbs[7]), int32(e.limbs[8]), int32(e.limbs[9])

	q := (19*h9 + (1 << 24)) >> 25
	q = (h0 + q) >> 26
	q = (h1 + q) >> 25
	q = (h2 + q) >> 26
	q = (h3 + q) >> 25
	q = (h4 + q) >> 26
	q = (h5 + q) >> 25
	q = (h6 + q) >> 26
	q = (h7 + q) >> 25
	q = (h8 + q) >> 26
	q = (h9 + q) >> 25

	h0 += 19 * q

	carry0 := h0 >> 26
	h1 += carry0
	h0 -= carry0 << 26
	carry1 := h1 >> 25
	h2 += carry1
	h1 -= carry1 << 25
	carry2 := h2 >> 26
	h3 += carry2
	h2 -= carry2 << 26
	carry3 := h3 >> 25
	h4 += carry3
	h3 -= carry3 << 25
	carry4 := h4 >> 26
	h5 += carry4
	h4 -= carry4 << 26
	carry5 := h5 >> 25
	h6 += carry5
	h5 -= carry5 << 25
	carry6 := h6 >> 26
	h7 += carry6
	h6 -= carry6 << 26
	carry7 := h7 >> 25
	h8 += carry7
	h7 -= carry7 << 25
	carry8 := h8 >> 26
	h9 += carry8
	h8 -= carry8 << 26
	carry9 := h9 >> 25
	h9 -= carry9 << 25

	var s [32]byte
	s[0] = byte(h0 >> 0)
	s[1] = byte(h0 >> 8)
	s[2] = byte(h0 >> 16)
	s[3] = byte((h0 >> 24) | (h1 << 2))
	s[4] = byte(h1 >> 6)
	s[5] = byte(h1 >> 14)
	s[6] = byte((h1 >> 22) | (h2 << 3))
	s[7] = byte(h2 >> 5)
	s[8] = byte(h2 >> 13)
	s[9] = byte((h2 >> 21) | (h3 << 5))
	s[10] = byte(h3 >> 3)
	s[11] = byte(h3 >> 11)
	s[12] = byte((h3 >> 19) | (h4 << 6))
	s[13] = byte(h4 >> 2)
	s[14] = byte(h4 >> 10)
	s[15] = byte(h4 >> 18)
	s[16] = byte(h5 >> 0)
	s[17] = byte(h5 >> 8)
	s[18] = byte(h5 >> 16)
	s[19] = byte((h5 >> 24) | (h6 << 1))
	s[20] = byte(h6 >> 7)
	s[21] = byte(h6 >> 15)
	s[22] = byte((h6 >> 23) | (h7 << 3))
	s[23] = byte(h7 >> 5)
	s[24] = byte(h7 >> 13)
	s[25] = byte((h7 >> 21) | (h8 << 4))
	s[26] = byte(h8 >> 4)
	s[27] = byte(h8 >> 12)
	s[28] = byte((h8 >> 20) | (h9 << 6))
	s[29] = byte(h9 >> 2)
	s[30] = byte(h9 >> 10)
	s[31] = byte(h9 >> 18)
	return s
}

// IsZero reports whether e, after normalization, represents the residue 0.
func (e *Element) IsZero() bool {
	b := e.Bytes()
	var acc byte
	for _, x := range b {
		acc |= x
	}
	return acc == 0
}

// IsNegative returns bit 0 of e's canonical byte encoding (1 if odd, 0 if
// even), matching the Ed25519 sign convention.
func (e *Element) IsNegative() int32 {
	b := e.Bytes()
	return int32(b[0] & 1)
}

// pow2to5minus1 sets out = a^(2^5-1) = a^31 and also returns a^11, the
// intermediate Invert's final multiplication needs.
func pow2to5minus1(out, p11, a *Element) {
	var t0, t1 Element
	t0.Sqr(a)         // a^2
	t1.Sqr(&t0)       // a^4
	t1.Sqr(&t1)       // a^8
	t1.Mul(a, &t1)    // a^9
	p11.Mul(&t0, &t1) // a^11
	t0.Sqr(p11)       // a^22
	out.Mul(&t1, &t0) // a^31
}

func sqrN(e, a *Element, n int) {
	e.Sqr(a)
	for i := 1; i < n; i++ {
		e.Sqr(e)
	}
}

// oddPowChain evaluates the shared tail of the addition chain used by both
// Invert and Pow2_252_minus_3 (SUPERCOP ref10's fe_invert/fe_pow22523),
// returning a^11 and a^(2^250-1).
func oddPowChain(a *Element) (p11, p250 Element) {
	var p5, p10 Element
	pow2to5minus1(&p5, &p11, a)

	var t Element
	sqrN(&t, &p5, 5)
	p10.Mul(&t, &p5) // a^(2^10-1)

	var p20 Element
	sqrN(&t, &p10, 10)
	p20.Mul(&t, &p10) // a^(2^20-1)

	var p40 Element
	sqrN(&t, &p20, 20)
	p40.Mul(&t, &p20) // a^(2^40-1)

	var p50 Element
	sqrN(&t, &p40, 10)
	p50.Mul(&t, &p10) // a^((2^40-1)*2^10 + (2^10-1)) = a^(2^50-1)

	var p100 Element
	sqrN(&t, &p50, 50)
	p100.Mul(&t, &p50) // a^(2^100-1)

	var p200 Element
	sqrN(&t, &p100, 100)
	p200.Mul(&t, &p100) // a^(2^200-1)

	sqrN(&t, &p200, 50)
	p250.Mul(&t, &p50) // a^(2^250-1)

	return p11, p250
}

// Invert sets e = a^-1 = a^(p-2) mod p (p = 2^255-19) and returns e. a == 0
// yields e == 0, matching the convention used by every caller in this
// module (no caller inverts a value it has not first checked is possibly
// zero).
func (e *Element) Invert(a *Element) *Element {
	p11, p250 := oddPowChain(a)
	var t Element
	sqrN(&t, &p250, 5) // a^((2^250-1)*2^5) = a^(2^255-32)
	e.Mul(&t, &p11)    // a^(2^255-32+11) = a^(2^255-21) = a^(p-2)
	return e
}

// Pow2_252_minus_3 sets e = a^(2^252-3), the exponent used by point
// decoding's square-root candidate; it shares the early part of Invert's
// addition chain.
func (e *Element) Pow2_252_minus_3(a *Element) *Element {
	_, p250 := oddPowChain(a)
	var t Element
	sqrN(&t, &p250, 2) // a^((2^250-1)*4) = a^(2^252-4)
	e.Mul(&t, a)       // a^(2^252-4+1) = a^(2^252-3)
	return e
}

// smallOrderBlacklist holds the canonical byte encodings of every point of
// order dividing 8, plus the boundary values 0, p-1, p, p+1: any Curve25519
// input matching one of these yields a degenerate (low-entropy or zero)
// shared secret and must be rejected before the ladder runs.
var smallOrderBlacklist = [7][32]byte{
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0xe0, 0xeb, 0x7a, 0x7c, 0x3b, 0x41, 0xb8, 0xae, 0x16, 0x56, 0xe3, 0xfa, 0xf1, 0x9f, 0xc4, 0x6a, 0xda, 0x09, 0x8d, 0xeb, 0x9c, 0x32, 0xb1, 0xfd, 0x86, 0x62, 0x05, 0x16, 0x5f, 0x49, 0xb8, 0x00},
	{0x5f, 0x9c, 0x95, 0xbc, 0xa3, 0x50, 0x8c, 0x24, 0xb1, 0xd0, 0xb1, 0x55, 0x9c, 0x83, 0xef, 0x5b, 0x04, 0x44, 0x5c, 0xc4, 0x58, 0x1c, 0x8e, 0x86, 0xd8, 0x22, 0x4e, 0xdd, 0xd0, 0x9f, 0x11, 0x57},
	{0xec, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
	{0xed, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
	{0xee, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
}

// HasSmallOrder reports whether the 32-byte encoding p matches one of the
// seven blacklisted small-order values, in constant time.
func HasSmallOrder(p *[32]byte) bool {
	var c [7]byte
	for j := 0; j < 31; j++ {
		for i := range smallOrderBlacklist {
			c[i] |= p[j] ^ smallOrderBlacklist[i][j]
		}
	}
	for i := range smallOrderBlacklist {
		c[i] |= (p[31] & 0x7f) ^ smallOrderBlacklist[i][31]
	}
	var k uint32
	for i := range smallOrderBlacklist {
		k |= uint32(c[i]) - 1
	}
	return (k>>8)&1 == 1
}

package edwards25519

import "github.com/kryptco/bdap/internal/field"

// basepointBytes is the canonical Ed25519 generator, encoded per RFC 8032: the
// affine point with y = 4/5 and x positive.
var basepointBytes = [32]byte{
	0x58, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
	0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
	0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
	0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
}

// Basepoint returns the Ed25519 base point B.
func Basepoint() *ProjP3 {
	var b ProjP3
	if !b.Decode(&basepointBytes) {
		panic("edwards25519: basepoint failed to decode")
	}
	return &b
}

// ScalarMult sets r = [scalar] * p, scalar read as a little-endian integer,
// and returns r. Runs in data-independent time: every bit performs the same
// doubling and addition, selecting the result with Cmov rather than a
// branch.
func ScalarMult(scalar *[32]byte, p *ProjP3) *ProjP3 {
	var r ProjP3
	r.Zero()

	var cached ProjCached
	p3ToCached(&cached, p)

	for i := 255; i >= 0; i-- {
		var t ProjP1xP1
		p3Dbl(&t, &r)
		var doubled ProjP3
		p1p1ToP3(&doubled, &t)

		addCached(&t, &doubled, &cached)
		var added ProjP3
		p1p1ToP3(&added, &t)

		bit := int32((scalar[i/8] >> uint(i%8)) & 1)
		doubled.Cmov(&added, bit)
		r.Set(&doubled)
	}
	return &r
}

// ScalarMultBase sets r = [scalar] * B for the Ed25519 base point B.
func ScalarMultBase(scalar *[32]byte) *ProjP3 {
	return ScalarMult(scalar, Basepoint())
}

// aslide is the signed sliding-window digit sequence for the group order l,
// used to multiply a point by l when checking subgroup membership.
var aslide = [253]int8{
	13, 0, 0, 0, 0, -1, 0, 0, 0, 0, -11,
	0, 0, 0, 0, 0, 0, -5, 0, 0, 0, 0,
	0, 0, -3, 0, 0, 0, 0, -13, 0, 0, 0,
	0, 7, 0, 0, 0, 0, 0, 3, 0, 0, 0,
	0, -13, 0, 0, 0, 0, 5, 0, 0, 0, 0,
	0, 0, 0, 0, 11, 0, 0, 0, 0, 0, 11,
	0, 0, 0, 0, -13, 0, 0, 0, 0, 0, 0,
	-3, 0, 0, 0, 0, 0, -1, 0, 0, 0, 0,
	3, 0, 0, 0, 0, -11, 0, 0, 0, 0, 0,
	0, 0, 15, 0, 0, 0, 0, 0, -1, 0, 0,
	0, 0, -1, 0, 0, 0, 0, 7, 0, 0, 0,
	0, 5, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1,
}

// MulL sets r = [l] * a, l the order of the main subgroup. This is variable
// time in the sense that it takes a fixed sequence of additions determined
// only by the (public) constant l, never by a; it is used only for subgroup
// membership checks on recipient-supplied public keys, never on secret
// scalars.
func MulL(r *ProjP3, a *ProjP3) {
	var Ai [8]ProjCached
	var t ProjP1xP1
	var u, a2 ProjP3

	p3ToCached(&Ai[0], a)
	p3Dbl(&t, a)
	p1p1ToP3(&a2, &t)
	addCached(&t, &a2, &Ai[0])
	p1p1ToP3(&u, &t)
	p3ToCached(&Ai[1], &u)

	for i := 1; i < 7; i++ {
		addCached(&t, &a2, &Ai[i])
		p1p1ToP3(&u, &t)
		p3ToCached(&Ai[i+1], &u)
	}

	r.Zero()
	for i := 252; i >= 0; i-- {
		p3Dbl(&t, r)

		switch {
		case aslide[i] > 0:
			p1p1ToP3(&u, &t)
			addCached(&t, &u, &Ai[aslide[i]/2])
		case aslide[i] < 0:
			p1p1ToP3(&u, &t)
			subCached(&t, &u, &Ai[(-aslide[i])/2])
		}

		p1p1ToP3(r, &t)
	}
}

// IsOnMainSubgroup reports whether p lies in the main subgroup of order l,
// i.e. [l] * p == identity.
func IsOnMainSubgroup(p *ProjP3) bool {
	var pl ProjP3
	MulL(&pl, p)
	return pl.X.IsZero()
}

// HasSmallOrder reports whether the encoded point p matches one of the
// seven canonical small-order encodings, in constant time (no early exit,
// no branch on the comparison result). The blacklist itself lives in
// package field (it is shared with the Curve25519 ladder's input check).
func HasSmallOrder(p *[32]byte) bool {
	return field.HasSmallOrder(p)
}

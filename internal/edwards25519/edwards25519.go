// Package edwards25519 implements group arithmetic on the twisted Edwards
// curve -x^2 + y^2 = 1 + d*x^2*y^2 over F = Z/(2^255-19), the curve underlying
// Ed25519. Point representations and formulas follow the extended
// coordinates system (X:Y:Z:T) with T = XY/Z, as used throughout the
// reference Ed25519 implementations this package is ported from.
package edwards25519

import "github.com/kryptco/bdap/internal/field"

// ProjP3 holds a point in extended projective coordinates (X:Y:Z:T).
type ProjP3 struct {
	X, Y, Z, T field.Element
}

// ProjP2 holds a point in projective coordinates (X:Y:Z), used only as an
// intermediate of doubling.
type ProjP2 struct {
	X, Y, Z field.Element
}

// ProjP1xP1 holds the output of an addition or doubling formula before it is
// folded back down to P2 or P3.
type ProjP1xP1 struct {
	X, Y, Z, T field.Element
}

// ProjCached holds a point in the precomputed form used on the right-hand
// side of point addition: (Y+X, Y-X, Z, 2dT).
type ProjCached struct {
	YPlusX, YMinusX, Z, T2d field.Element
}

// Curve constants, in radix-2^25.5 limb form.
var (
	d = field.FromLimbs([10]int32{
		-10913610, 13857413, -15372611, 6949391, 114729,
		-8787816, -6275908, -3247719, -18696448, -12055116,
	})
	d2 = field.FromLimbs([10]int32{
		-21827239, -5839606, -30745221, 13898782, 229458,
		15978800, -12551817, -6495438, 29715968, 9444199,
	})
	sqrtM1 = field.FromLimbs([10]int32{
		-32595792, -7943725, 9377950, 3500415, 12389472,
		-272473, -25146209, -2005654, 326686, 11406482,
	})
)

// Zero sets p to the group identity (0:1:1:0) and returns p.
func (p *ProjP3) Zero() *ProjP3 {
	p.X.Zero()
	p.Y.One()
	p.Z.One()
	p.T.Zero()
	return p
}

// Set sets p = q and returns p.
func (p *ProjP3) Set(q *ProjP3) *ProjP3 {
	p.X.Set(&q.X)
	p.Y.Set(&q.Y)
	p.Z.Set(&q.Z)
	p.T.Set(&q.T)
	return p
}

// Cmov sets p = src if cond == 1, leaves p unchanged if cond == 0.
func (p *ProjP3) Cmov(src *ProjP3, cond int32) *ProjP3 {
	p.X.Cmov(&src.X, cond)
	p.Y.Cmov(&src.Y, cond)
	p.Z.Cmov(&src.Z, cond)
	p.T.Cmov(&src.T, cond)
	return p
}

func p3ToP2(r *ProjP2, p *ProjP3) {
	r.X.Set(&p.X)
	r.Y.Set(&p.Y)
	r.Z.Set(&p.Z)
}

func p2Dbl(r *ProjP1xP1, p *ProjP2) {
	var t0 field.Element
	r.X.Sqr(&p.X)
	r.Z.Sqr(&p.Y)
	r.T.Sqr2(&p.Z)
	r.Y.Add(&p.X, &p.Y)
	t0.Sqr(&r.Y)
	r.Y.Add(&r.Z, &r.X)
	r.Z.Sub(&r.Z, &r.X)
	r.X.Sub(&t0, &r.Y)
	r.T.Sub(&r.T, &r.Z)
}

func p3Dbl(r *ProjP1xP1, p *ProjP3) {
	var q ProjP2
	p3ToP2(&q, p)
	p2Dbl(r, &q)
}

func p1p1ToP2(r *ProjP2, p *ProjP1xP1) {
	r.X.Mul(&p.X, &p.T)
	r.Y.Mul(&p.Y, &p.Z)
	r.Z.Mul(&p.Z, &p.T)
}

func p1p1ToP3(r *ProjP3, p *ProjP1xP1) {
	r.X.Mul(&p.X, &p.T)
	r.Y.Mul(&p.Y, &p.Z)
	r.Z.Mul(&p.Z, &p.T)
	r.T.Mul(&p.X, &p.Y)
}

func p3ToCached(r *ProjCached, p *ProjP3) {
	r.YPlusX.Add(&p.Y, &p.X)
	r.YMinusX.Sub(&p.Y, &p.X)
	r.Z.Set(&p.Z)
	r.T2d.Mul(&p.T, &d2)
}

// addCached sets r = p + q, q given in cached form.
func addCached(r *ProjP1xP1, p *ProjP3, q *ProjCached) {
	var t0 field.Element
	r.X.Add(&p.Y, &p.X)
	r.Y.Sub(&p.Y, &p.X)
	r.Z.Mul(&r.X, &q.YPlusX)
	r.Y.Mul(&r.Y, &q.YMinusX)
	r.T.Mul(&q.T2d, &p.T)
	r.X.Mul(&p.Z, &q.Z)
	t0.Add(&r.X, &r.X)
	r.X.Sub(&r.Z, &r.Y)
	r.Y.Add(&r.Z, &r.Y)
	r.Z.Add(&t0, &r.T)
	r.T.Sub(&t0, &r.T)
}

// subCached sets r = p - q, q given in cached form.
func subCached(r *ProjP1xP1, p *ProjP3, q *ProjCached) {
	var t0 field.Element
	r.X.Add(&p.Y, &p.X)
	r.Y.Sub(&p.Y, &p.X)
	r.Z.Mul(&r.X, &q.YMinusX)
	r.Y.Mul(&r.Y, &q.YPlusX)
	r.T.Mul(&q.T2d, &p.T)
	r.X.Mul(&p.Z, &q.Z)
	t0.Add(&r.X, &r.X)
	r.X.Sub(&r.Z, &r.Y)
	r.Y.Add(&r.Z, &r.Y)
	r.Z.Sub(&t0, &r.T)
	r.T.Add(&t0, &r.T)
}

// Encode serialises p to its canonical 32-byte little-endian form: the
// affine y-coordinate with the sign of x folded into the top bit.
func (p *ProjP3) Encode() [32]byte {
	var r, x, y field.Element
	r.Invert(&p.Z)
	x.Mul(&p.X, &r)
	y.Mul(&p.Y, &r)
	s := y.Bytes()
	s[31] ^= byte(x.IsNegative() << 7)
	return s
}

// Decode deserialises the 32-byte encoding s into p. It reports false if s
// does not encode a point on the curve (ok == false leaves p undefined).
func (p *ProjP3) Decode(s *[32]byte) bool {
	var u, v, v3, x field.Element
	p.Y.SetBytes(s[:])
	p.Z.One()

	u.Sqr(&p.Y)
	v.Mul(&u, &d)
	u.Sub(&u, &p.Z)
	v.Add(&v, &p.Z)

	v3.Sqr(&v)
	v3.Mul(&v3, &v)
	p.X.Sqr(&v3)
	p.X.Mul(&p.X, &v)
	p.X.Mul(&p.X, &u)

	p.X.Pow2_252_minus_3(&p.X)
	p.X.Mul(&p.X, &v3)
	p.X.Mul(&p.X, &u)

	x.Sqr(&p.X)
	x.Mul(&x, &v)

	var mRootCheck, pRootCheck field.Element
	mRootCheck.Sub(&x, &u)
	hasMRoot := mRootCheck.IsZero() // v*x^2 == u
	pRootCheck.Add(&x, &u)
	hasPRoot := pRootCheck.IsZero() // v*x^2 == -u

	var xSqrtM1 field.Element
	xSqrtM1.Mul(&p.X, &sqrtM1)
	notHasMRoot := int32(1)
	if hasMRoot {
		notHasMRoot = 0
	}
	p.X.Cmov(&xSqrtM1, notHasMRoot)

	var negX field.Element
	negX.Neg(&p.X)
	signBit := s[31] >> 7
	p.X.Cmov(&negX, p.X.IsNegative()^int32(signBit))

	p.T.Mul(&p.X, &p.Y)

	return hasMRoot || hasPRoot
}

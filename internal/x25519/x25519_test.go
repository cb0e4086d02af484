package x25519

import (
	"bytes"
	"crypto/rand"
	"testing"

	"golang.org/x/crypto/curve25519"
)

type osRNG struct{}

func (osRNG) Fill(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}

func TestDHSymmetry(t *testing.T) {
	var aPriv, aPub, bPriv, bPub [32]byte
	if err := RandomKeypair(&aPub, &aPriv, osRNG{}); err != nil {
		t.Fatal(err)
	}
	if err := RandomKeypair(&bPub, &bPriv, osRNG{}); err != nil {
		t.Fatal(err)
	}

	var sharedA, sharedB [32]byte
	if !DH(&sharedA, &aPriv, &bPub) {
		t.Fatal("dh(a, B) reported small order for a valid public key")
	}
	if !DH(&sharedB, &bPriv, &aPub) {
		t.Fatal("dh(b, A) reported small order for a valid public key")
	}
	if sharedA != sharedB {
		t.Fatalf("dh(a, [b]B) != dh(b, [a]B): %x != %x", sharedA, sharedB)
	}
}

// TestDHMatchesXCryptoCurve25519 compares the ladder output against
// golang.org/x/crypto/curve25519, an independently implemented X25519, for
// random scalars and points.
func TestDHMatchesXCryptoCurve25519(t *testing.T) {
	for i := 0; i < 20; i++ {
		var aPriv, aPub, bPriv, bPub [32]byte
		if err := RandomKeypair(&aPub, &aPriv, osRNG{}); err != nil {
			t.Fatal(err)
		}
		if err := RandomKeypair(&bPub, &bPriv, osRNG{}); err != nil {
			t.Fatal(err)
		}

		want, err := curve25519.X25519(aPriv[:], bPub[:])
		if err != nil {
			t.Fatal(err)
		}

		var got [32]byte
		if !DH(&got, &aPriv, &bPub) {
			t.Fatal("dh rejected a valid public key")
		}
		if !bytes.Equal(got[:], want) {
			t.Fatalf("dh output disagrees with x/crypto/curve25519: %x != %x", got, want)
		}

		wantPub, err := curve25519.X25519(aPriv[:], curve25519.Basepoint)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(aPub[:], wantPub) {
			t.Fatalf("public key disagrees with x/crypto/curve25519: %x != %x", aPub, wantPub)
		}
	}
}

func TestDHRejectsZeroPoint(t *testing.T) {
	var zero, priv, out [32]byte
	priv[0] = 1
	if DH(&out, &priv, &zero) {
		t.Fatal("dh accepted the all-zero (small-order) point")
	}
}

func TestClampIsIdempotent(t *testing.T) {
	var s [32]byte
	if _, err := rand.Read(s[:]); err != nil {
		t.Fatal(err)
	}
	Clamp(&s)
	clamped := s
	Clamp(&s)
	if s != clamped {
		t.Fatal("clamp is not idempotent")
	}
	if s[0]&0x07 != 0 {
		t.Fatal("low 3 bits not cleared")
	}
	if s[31]&0x80 != 0 {
		t.Fatal("bit 255 not cleared")
	}
	if s[31]&0x40 == 0 {
		t.Fatal("bit 254 not set")
	}
}

package bdap

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/kryptco/bdap/internal/x25519"
)

func mustHexDecode(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func genKeypair(t *testing.T) (ed25519.PublicKey, []byte) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	return pub, priv.Seed()
}

// TestX25519KAT checks published keypair-generation vectors: seeding the
// deterministic RNG with a fixed 16-byte value and drawing a 32-byte
// private scalar must derive a fixed public key.
func TestX25519KAT(t *testing.T) {
	vectors := []struct {
		seed, public, private string
	}{
		{
			"a1376235f525789373981cc53196aca9",
			"ae08fcb27a0a655c483f8116cc8df14e412f96944d14cdf34f6fda3208fa6712",
			"92c520350c84ea52d45e1156eac0ad1719db04d6fbe5b025ab9a6e38daaca90b",
		},
		{
			"d80b8c03a85c91a79e7624987e0911a7",
			"e25e376a5c4a8c75753aa0832ca96dabb1579828ddfbaad1df9f68e5a0616e28",
			"1935c23024682713900ffc101020e1d84fe9753db4afea9d14e5713efc4fcde0",
		},
		{
			"05f15e1846d3751b5425a3076d33b1fa",
			"cfc76bf6fb1480977eec151b8fb637fb94bfa06424e2dee6d228c76a7b17095b",
			"5de3bc07b06c94787bc58165d0ac345ea954c7666d053f9f6855f4f8802f653c",
		},
	}

	for i, v := range vectors {
		rng := NewShakeRNG(mustHexDecode(t, v.seed))
		var pub, priv [32]byte
		if err := x25519.RandomKeypair(&pub, &priv, rng); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(priv[:], mustHexDecode(t, v.private)) {
			t.Fatalf("vector %d: private scalar mismatch: got %x", i, priv)
		}
		if !bytes.Equal(pub[:], mustHexDecode(t, v.public)) {
			t.Fatalf("vector %d: public key mismatch: got %x", i, pub)
		}
	}
}

// TestEnvelopeDeterministicTwoRecipients runs the two-recipient short-payload
// scenario entirely off the deterministic RNG: the fixed seed drives the two
// Ed25519 keypair derivations, the ephemeral key, and the shared secret, so
// the whole envelope is reproducible run to run.
func TestEnvelopeDeterministicTwoRecipients(t *testing.T) {
	rng := NewShakeRNG(mustHexDecode(t, "6a25075a543faab09d269c338df80c67a28b735d40c0d84e9347a6915b2026ea"))

	var pubs []ed25519.PublicKey
	var seeds [][]byte
	for i := 0; i < 2; i++ {
		seed := make([]byte, ed25519.SeedSize)
		if err := rng.Fill(seed); err != nil {
			t.Fatal(err)
		}
		priv := ed25519.NewKeyFromSeed(seed)
		pubs = append(pubs, priv.Public().(ed25519.PublicKey))
		seeds = append(seeds, seed)
	}

	ciphertext, err := Encrypt(pubs, []byte("hello"), rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(ciphertext) != 133 {
		t.Fatalf("ciphertext length = %d, want 133", len(ciphertext))
	}

	for i, seed := range seeds {
		plaintext, err := Decrypt(seed, ciphertext)
		if err != nil {
			t.Fatalf("recipient %d: %v", i, err)
		}
		if string(plaintext) != "hello" {
			t.Fatalf("recipient %d: plaintext = %q, want %q", i, plaintext, "hello")
		}
	}
}

// TestEnvelopeTwoRecipientsShortPayload is scenario S1: two recipients, a
// 5-byte payload, exact size check, both recipients decrypt successfully.
func TestEnvelopeTwoRecipientsShortPayload(t *testing.T) {
	pubA, seedA := genKeypair(t)
	pubB, seedB := genKeypair(t)

	ciphertext, err := Encrypt([]ed25519.PublicKey{pubA, pubB}, []byte("hello"), OSRNG{})
	if err != nil {
		t.Fatal(err)
	}
	if len(ciphertext) != 133 {
		t.Fatalf("ciphertext length = %d, want 133", len(ciphertext))
	}
	if got := CiphertextSize(2, 5); got != 133 {
		t.Fatalf("CiphertextSize(2, 5) = %d, want 133", got)
	}

	for _, seed := range [][]byte{seedA, seedB} {
		plaintext, err := Decrypt(seed, ciphertext)
		if err != nil {
			t.Fatalf("decrypt failed: %v", err)
		}
		if string(plaintext) != "hello" {
			t.Fatalf("plaintext = %q, want %q", plaintext, "hello")
		}
	}
}

// TestEnvelopeOneRecipientEmptyPayload is scenario S2.
func TestEnvelopeOneRecipientEmptyPayload(t *testing.T) {
	pub, seed := genKeypair(t)

	ciphertext, err := Encrypt([]ed25519.PublicKey{pub}, nil, OSRNG{})
	if err != nil {
		t.Fatal(err)
	}
	if len(ciphertext) != 89 {
		t.Fatalf("ciphertext length = %d, want 89", len(ciphertext))
	}

	plaintext, err := Decrypt(seed, ciphertext)
	if err != nil {
		t.Fatal(err)
	}
	if len(plaintext) != 0 {
		t.Fatalf("plaintext length = %d, want 0", len(plaintext))
	}
}

// TestTagTamperFailsDecrypt is scenario S5.
func TestTagTamperFailsDecrypt(t *testing.T) {
	pub, seed := genKeypair(t)

	ciphertext, err := Encrypt([]ed25519.PublicKey{pub}, []byte("attack at dawn"), OSRNG{})
	if err != nil {
		t.Fatal(err)
	}
	ciphertext[len(ciphertext)-1] ^= 0x01

	_, err = Decrypt(seed, ciphertext)
	if !errors.Is(err, ErrGCMDecryptFailed) {
		t.Fatalf("err = %v, want ErrGCMDecryptFailed", err)
	}
}

// TestWrongRecipientFailsDecrypt is scenario S6.
func TestWrongRecipientFailsDecrypt(t *testing.T) {
	pubA, _ := genKeypair(t)
	_, seedB := genKeypair(t)

	ciphertext, err := Encrypt([]ed25519.PublicKey{pubA}, []byte("for A only"), OSRNG{})
	if err != nil {
		t.Fatal(err)
	}

	_, err = Decrypt(seedB, ciphertext)
	if !errors.Is(err, ErrNoValidRecipient) {
		t.Fatalf("err = %v, want ErrNoValidRecipient", err)
	}
}

// TestEnvelopeRoundTripManyRecipients checks that every recipient out of N
// recovers the same plaintext (property 10), and the size formula holds
// (property 11).
func TestEnvelopeRoundTripManyRecipients(t *testing.T) {
	const n = 6
	var pubs []ed25519.PublicKey
	var seeds [][]byte
	for i := 0; i < n; i++ {
		pub, seed := genKeypair(t)
		pubs = append(pubs, pub)
		seeds = append(seeds, seed)
	}

	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	ciphertext, err := Encrypt(pubs, plaintext, OSRNG{})
	if err != nil {
		t.Fatal(err)
	}

	wantSize := 2 + 32 + 39*n + len(plaintext) + 16
	if len(ciphertext) != wantSize {
		t.Fatalf("ciphertext length = %d, want %d", len(ciphertext), wantSize)
	}

	decryptedSize, err := DecryptedSize(ciphertext)
	if err != nil {
		t.Fatal(err)
	}
	if decryptedSize != len(plaintext) {
		t.Fatalf("DecryptedSize = %d, want %d", decryptedSize, len(plaintext))
	}

	for i, seed := range seeds {
		got, err := Decrypt(seed, ciphertext)
		if err != nil {
			t.Fatalf("recipient %d: decrypt failed: %v", i, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("recipient %d: plaintext mismatch: got %q want %q", i, got, plaintext)
		}
	}
}

// TestFingerprintCollisionFailsAtTag forges the collision case: a slot whose
// fingerprint matches recipient B but whose wrapped secret was produced for
// recipient A. B's unwrap then yields a garbage bulk key, and the failure
// must surface as a GCM tag mismatch, not as a missing recipient.
func TestFingerprintCollisionFailsAtTag(t *testing.T) {
	pubA, _ := genKeypair(t)
	pubB, seedB := genKeypair(t)

	ciphertext, err := Encrypt([]ed25519.PublicKey{pubA}, []byte("for A only"), OSRNG{})
	if err != nil {
		t.Fatal(err)
	}
	copy(ciphertext[headerSize:headerSize+fingerprintSize], pubB[:fingerprintSize])

	_, err = Decrypt(seedB, ciphertext)
	if !errors.Is(err, ErrGCMDecryptFailed) {
		t.Fatalf("err = %v, want ErrGCMDecryptFailed", err)
	}
}

func TestConstantTimeEqual7(t *testing.T) {
	a := []byte{1, 2, 3, 4, 5, 6, 7}
	b := []byte{1, 2, 3, 4, 5, 6, 7}
	if !constantTimeEqual7(a, b) {
		t.Fatal("equal fingerprints reported unequal")
	}
	for i := range b {
		c := append([]byte(nil), b...)
		c[i] ^= 0x80
		if constantTimeEqual7(a, c) {
			t.Fatalf("fingerprints differing at byte %d reported equal", i)
		}
	}
}

func TestDuplicateFingerprintUsesFirstSlot(t *testing.T) {
	pub, seed := genKeypair(t)

	ciphertext, err := Encrypt([]ed25519.PublicKey{pub, pub}, []byte("twice addressed"), OSRNG{})
	if err != nil {
		t.Fatal(err)
	}

	plaintext, err := Decrypt(seed, ciphertext)
	if err != nil {
		t.Fatal(err)
	}
	if string(plaintext) != "twice addressed" {
		t.Fatalf("plaintext = %q", plaintext)
	}
}

func TestEncryptRejectsZeroRecipients(t *testing.T) {
	_, err := Encrypt(nil, []byte("x"), OSRNG{})
	if !errors.Is(err, ErrTooManyRecipients) {
		t.Fatalf("err = %v, want ErrTooManyRecipients", err)
	}
}

func TestDecryptRejectsBadSeedSize(t *testing.T) {
	_, err := Decrypt(make([]byte, 10), make([]byte, 200))
	if !errors.Is(err, ErrInvalidSeedSize) {
		t.Fatalf("err = %v, want ErrInvalidSeedSize", err)
	}
}

func TestDecryptRejectsTruncatedCiphertext(t *testing.T) {
	_, seed := genKeypair(t)
	_, err := Decrypt(seed, make([]byte, 10))
	if !errors.Is(err, ErrMalformedCiphertext) {
		t.Fatalf("err = %v, want ErrMalformedCiphertext", err)
	}
}

// capturingRNG draws from the OS RNG but retains a reference to every
// buffer it filled. Encrypt hands it the ephemeral X25519 private scalar
// and the shared secret, so after Encrypt returns the test can observe
// whether those buffers were zeroed.
type capturingRNG struct {
	filled [][]byte
}

func (r *capturingRNG) Fill(buf []byte) error {
	r.filled = append(r.filled, buf)
	return OSRNG{}.Fill(buf)
}

func assertAllZero(t *testing.T, bufs [][]byte) {
	t.Helper()
	for i, buf := range bufs {
		for _, b := range buf {
			if b != 0 {
				t.Fatalf("rng-filled buffer %d not zeroed: %x", i, buf)
			}
		}
	}
}

func TestEncryptZeroesSecretsOnReturn(t *testing.T) {
	pub, _ := genKeypair(t)
	rng := &capturingRNG{}

	if _, err := Encrypt([]ed25519.PublicKey{pub}, []byte("transient"), rng); err != nil {
		t.Fatal(err)
	}
	if len(rng.filled) != 2 {
		t.Fatalf("encrypt drew %d buffers from the rng, want 2", len(rng.filled))
	}
	assertAllZero(t, rng.filled)
}

func TestEncryptZeroesSecretsOnFailure(t *testing.T) {
	good, _ := genKeypair(t)
	bad := make(ed25519.PublicKey, ed25519.PublicKeySize) // all-zero encoding, small order
	rng := &capturingRNG{}

	_, err := Encrypt([]ed25519.PublicKey{good, bad}, []byte("transient"), rng)
	if !errors.Is(err, ErrEd25519ToX25519PublicKeyFailed) {
		t.Fatalf("err = %v, want ErrEd25519ToX25519PublicKeyFailed", err)
	}
	assertAllZero(t, rng.filled)
}

func TestShakeRNGIsDeterministic(t *testing.T) {
	seed := []byte("deterministic test seed")
	r1 := NewShakeRNG(seed)
	r2 := NewShakeRNG(seed)

	buf1 := make([]byte, 64)
	buf2 := make([]byte, 64)
	if err := r1.Fill(buf1); err != nil {
		t.Fatal(err)
	}
	if err := r2.Fill(buf2); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf1, buf2) {
		t.Fatal("two ShakeRNGs with the same seed produced different output")
	}
}

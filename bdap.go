// Package bdap implements a multi-recipient end-to-end encryption envelope
// over Ed25519 identity keys: an ephemeral X25519 key agreement per
// recipient wraps a single shared secret, which in turn keys an AES-256-GCM
// encryption of the payload shared by every recipient.
package bdap

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/kryptco/bdap/internal/aesctr"
	"github.com/kryptco/bdap/internal/aesgcm"
	"github.com/kryptco/bdap/internal/ed2x"
	"github.com/kryptco/bdap/internal/x25519"
)

const maxRecipients = 65535

// Encrypt builds a BDAP envelope addressed to every public key in
// recipients, containing plaintext. Any one of the corresponding seeds can
// later recover plaintext via Decrypt. rng supplies the ephemeral key
// material and the shared secret; use OSRNG in production.
func Encrypt(recipients []ed25519.PublicKey, plaintext []byte, rng RNG) ([]byte, error) {
	if len(recipients) == 0 || len(recipients) > maxRecipients {
		log.Errorf("encrypt: %d recipients is outside the 1..65535 wire range", len(recipients))
		return nil, ErrTooManyRecipients
	}
	log.Debugf("encrypt: %d recipients, %d byte plaintext", len(recipients), len(plaintext))

	out := make([]byte, CiphertextSize(len(recipients), len(plaintext)))
	binary.LittleEndian.PutUint16(out[:2], uint16(len(recipients)))
	cursor := out[2:]

	var ephemeralSk, ephemeralPk [32]byte
	if err := x25519.RandomKeypair(&ephemeralPk, &ephemeralSk, rng); err != nil {
		securezero(out)
		return nil, newError(KindX25519KeypairFailed, "%v", err)
	}
	defer securezero(ephemeralSk[:])
	copy(cursor[:x25519.PointSize], ephemeralPk[:])
	cursor = cursor[x25519.PointSize:]

	var s [32]byte
	if err := rng.Fill(s[:]); err != nil {
		securezero(out)
		return nil, newError(KindX25519KeypairFailed, "%v", err)
	}
	defer securezero(s[:])

	for i, pk := range recipients {
		if len(pk) != ed25519.PublicKeySize {
			securezero(out)
			return nil, ErrEd25519ToX25519PublicKeyFailed
		}

		var edPk [32]byte
		copy(edPk[:], pk)

		var xpk [32]byte
		if err := ed2x.PublicToX25519(&xpk, &edPk); err != nil {
			securezero(out)
			return nil, newError(KindEd25519ToX25519PublicKeyFailed, "recipient %d: %v", i, err)
		}

		var q [32]byte
		if !x25519.DH(&q, &ephemeralSk, &xpk) {
			securezero(out)
			return nil, newError(KindX25519DHFailed, "recipient %d", i)
		}

		key, iv := deriveWrapKeyIV(q[:], xpk[:], ephemeralPk[:])
		securezero(q[:])

		slot := cursor[:slotSize]
		copy(slot[:fingerprintSize], pk[:fingerprintSize])
		aesctr.XORKeyStream(slot[fingerprintSize:], s[:], &iv, &key)
		securezero(key[:])
		securezero(iv[:])

		cursor = cursor[slotSize:]
	}

	key, nonce := deriveBulkKeyNonce(s[:])
	sealed := aesgcm.Seal(&key, &nonce, plaintext, nil)
	securezero(key[:])
	copy(cursor, sealed)

	log.Debugf("encrypt: produced %d byte ciphertext", len(out))
	return out, nil
}

// Decrypt recovers the plaintext from ciphertext using the recipient's
// 32-byte Ed25519 seed. It returns ErrNoValidRecipient if no slot's
// fingerprint matches this seed's public key, and ErrGCMDecryptFailed if
// the authentication tag does not verify (including the case where a
// fingerprint collided with a different recipient's slot).
func Decrypt(seed []byte, ciphertext []byte) ([]byte, error) {
	if len(seed) != ed25519.SeedSize {
		log.Errorf("decrypt: seed is %d bytes, want %d", len(seed), ed25519.SeedSize)
		return nil, ErrInvalidSeedSize
	}
	if len(ciphertext) < headerSize+tagSize {
		log.Errorf("decrypt: %d byte ciphertext is shorter than the envelope header plus tag", len(ciphertext))
		return nil, ErrMalformedCiphertext
	}

	var seedBuf [32]byte
	copy(seedBuf[:], seed)
	if err := securelock(seedBuf[:]); err != nil {
		return nil, newError(KindMemoryProtectionFailed, "%v", err)
	}
	defer func() {
		secureunlock(seedBuf[:])
		securezero(seedBuf[:])
	}()

	var edPk [32]byte
	ed2x.EdPublicKeyFromSeed(&edPk, &seedBuf)

	n := numRecipientsFromHeader(ciphertext)
	fixed := headerSize + slotSize*n + tagSize
	if len(ciphertext) < fixed {
		return nil, ErrMalformedCiphertext
	}

	var ephemeralPk [32]byte
	copy(ephemeralPk[:], ciphertext[2:2+x25519.PointSize])

	slots := ciphertext[headerSize : headerSize+slotSize*n]
	var wrapped []byte
	for i := 0; i < n; i++ {
		slot := slots[i*slotSize : (i+1)*slotSize]
		if constantTimeEqual7(slot[:fingerprintSize], edPk[:fingerprintSize]) {
			wrapped = slot[fingerprintSize:]
			break
		}
	}
	if wrapped == nil {
		log.Errorf("decrypt: no matching recipient among %d slots", n)
		return nil, ErrNoValidRecipient
	}
	log.Debugf("decrypt: matched recipient slot among %d", n)

	var xsk [32]byte
	ed2x.SeedToX25519Private(&xsk, &seedBuf)
	if err := securelock(xsk[:]); err != nil {
		return nil, newError(KindMemoryProtectionFailed, "%v", err)
	}
	defer func() {
		secureunlock(xsk[:])
		securezero(xsk[:])
	}()

	var xpk [32]byte
	if !x25519.PublicKeyFromPrivate(&xpk, &xsk) {
		return nil, ErrX25519PublicKeyDerivationFailed
	}

	var q [32]byte
	if !x25519.DH(&q, &xsk, &ephemeralPk) {
		return nil, ErrX25519DHFailed
	}
	defer securezero(q[:])

	key, iv := deriveWrapKeyIV(q[:], xpk[:], ephemeralPk[:])
	defer func() {
		securezero(key[:])
		securezero(iv[:])
	}()

	var s [32]byte
	aesctr.XORKeyStream(s[:], wrapped, &iv, &key)
	defer securezero(s[:])

	bulkKey, nonce := deriveBulkKeyNonce(s[:])
	defer securezero(bulkKey[:])

	body := ciphertext[headerSize+slotSize*n:]
	plaintext, err := aesgcm.Open(&bulkKey, &nonce, body, nil)
	if err != nil {
		log.Errorf("decrypt: gcm tag verification failed")
		return nil, ErrGCMDecryptFailed
	}

	log.Debugf("decrypt: recovered %d byte plaintext", len(plaintext))
	return plaintext, nil
}

// constantTimeEqual7 compares two 7-byte fingerprint slices without
// branching on the position of the first mismatch.
func constantTimeEqual7(a, b []byte) bool {
	var v byte
	for i := 0; i < fingerprintSize; i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}

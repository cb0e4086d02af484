package bdap

import (
	"encoding/binary"

	"github.com/kryptco/bdap/internal/x25519"
)

const (
	fingerprintSize = 7
	secretSize      = 32
	slotSize        = fingerprintSize + secretSize // 39
	headerSize      = 2 + x25519.PointSize         // numRecipients + ephemeral public key
	tagSize         = 16
)

// CiphertextSize returns the exact length of the envelope produced by
// Encrypt for the given recipient count and plaintext length.
func CiphertextSize(numRecipients int, plaintextLen int) int {
	return headerSize + slotSize*numRecipients + plaintextLen + tagSize
}

// numRecipientsFromHeader reads the little-endian uint16 recipient count
// from the start of a ciphertext.
func numRecipientsFromHeader(ciphertext []byte) int {
	return int(binary.LittleEndian.Uint16(ciphertext[:2]))
}

// DecryptedSize returns the plaintext length implied by a ciphertext's own
// recipient count, or ErrMalformedCiphertext if the ciphertext is too
// short to contain a header plus tag, or its length is inconsistent with
// the recipient count it declares.
func DecryptedSize(ciphertext []byte) (int, error) {
	if len(ciphertext) < headerSize+tagSize {
		return 0, ErrMalformedCiphertext
	}
	n := numRecipientsFromHeader(ciphertext)
	fixed := headerSize + slotSize*n + tagSize
	if len(ciphertext) < fixed {
		return 0, ErrMalformedCiphertext
	}
	return len(ciphertext) - fixed, nil
}

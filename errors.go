package bdap

import "fmt"

// ErrorKind enumerates the ways BDAP encryption or decryption can fail,
// so a caller can match on failure class without parsing strings.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota + 1
	KindEd25519ToX25519PublicKeyFailed
	KindX25519PublicKeyDerivationFailed
	KindX25519KeypairFailed
	KindX25519DHFailed
	KindAESCTRKeyDerivationFailed
	KindAESGCMKeyDerivationFailed
	KindAESCTREncryptFailed
	KindAESCTRDecryptFailed
	KindAESGCMEncryptFailed
	KindAESGCMDecryptFailed
	KindNoValidRecipient
	KindMemoryProtectionFailed
	KindMalformedCiphertext
	KindInvalidSeedSize
	KindTooManyRecipients
)

var errorMessages = map[ErrorKind]string{
	KindUnknown:                         "unknown error",
	KindEd25519ToX25519PublicKeyFailed:  "unable to convert Ed25519 public key to Curve25519 public key",
	KindX25519PublicKeyDerivationFailed: "unable to derive Curve25519 public key from its private key",
	KindX25519KeypairFailed:             "unable to generate an ephemeral Curve25519 key pair",
	KindX25519DHFailed:                  "unable to perform Curve25519 Diffie-Hellman exchange",
	KindAESCTRKeyDerivationFailed:       "AES-CTR key and IV derivation failed",
	KindAESGCMKeyDerivationFailed:       "AES-GCM key and nonce derivation failed",
	KindAESCTREncryptFailed:             "AES-CTR encrypt failed",
	KindAESCTRDecryptFailed:             "AES-CTR decrypt failed",
	KindAESGCMEncryptFailed:             "AES-GCM encrypt failed",
	KindAESGCMDecryptFailed:             "AES-GCM decrypt failed",
	KindNoValidRecipient:                "no recipient fingerprint in the ciphertext matches this key",
	KindMemoryProtectionFailed:          "unable to lock sensitive memory",
	KindMalformedCiphertext:             "ciphertext is truncated or internally inconsistent",
	KindInvalidSeedSize:                 "Ed25519 seed must be 32 bytes",
	KindTooManyRecipients:               "recipient count must be between 1 and 65535",
}

// Error is the concrete error type returned by this package's exported
// functions. Kind is always set; callers that only care about the failure
// class should compare against the sentinel values below with errors.Is
// rather than matching on the message text.
type Error struct {
	Kind ErrorKind
	msg  string
}

func (e *Error) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("bdap: %s: %s", errorMessages[e.Kind], e.msg)
	}
	return fmt.Sprintf("bdap: %s", errorMessages[e.Kind])
}

// Is reports whether target is a *Error of the same Kind, so callers can
// write errors.Is(err, bdap.ErrNoValidRecipient) regardless of which
// specific message instance was returned.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Sentinel error values, one per ErrorKind, for use with errors.Is.
var (
	ErrUnknown                         = &Error{Kind: KindUnknown}
	ErrEd25519ToX25519PublicKeyFailed  = &Error{Kind: KindEd25519ToX25519PublicKeyFailed}
	ErrX25519PublicKeyDerivationFailed = &Error{Kind: KindX25519PublicKeyDerivationFailed}
	ErrX25519KeypairFailed             = &Error{Kind: KindX25519KeypairFailed}
	ErrX25519DHFailed                  = &Error{Kind: KindX25519DHFailed}
	ErrAESCTRKeyDerivationFailed       = &Error{Kind: KindAESCTRKeyDerivationFailed}
	ErrAESGCMKeyDerivationFailed       = &Error{Kind: KindAESGCMKeyDerivationFailed}
	ErrAESCTREncryptFailed             = &Error{Kind: KindAESCTREncryptFailed}
	ErrAESCTRDecryptFailed             = &Error{Kind: KindAESCTRDecryptFailed}
	ErrAESGCMEncryptFailed             = &Error{Kind: KindAESGCMEncryptFailed}
	ErrGCMDecryptFailed                = &Error{Kind: KindAESGCMDecryptFailed}
	ErrNoValidRecipient                = &Error{Kind: KindNoValidRecipient}
	ErrMemoryProtectionFailed          = &Error{Kind: KindMemoryProtectionFailed}
	ErrMalformedCiphertext             = &Error{Kind: KindMalformedCiphertext}
	ErrInvalidSeedSize                 = &Error{Kind: KindInvalidSeedSize}
	ErrTooManyRecipients               = &Error{Kind: KindTooManyRecipients}
)

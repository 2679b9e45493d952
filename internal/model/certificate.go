package model

import (
	"encoding/binary"
	"time"

	"github.com/cardinal-network/identity-vault/internal/crypto"
)

// ScopeKind tags a capability as readable or writable.
type ScopeKind string

const (
	ScopeRead  ScopeKind = "read"
	ScopeWrite ScopeKind = "write"
)

// Scope names a capability under an application.
type Scope struct {
	Kind            ScopeKind
	ApplicationCode string
	Code            string
}

// Hash mixes the kind tag into the hash so a read scope and a write scope
// with the same codes never collide.
func (s Scope) Hash() [crypto.KeySize]byte {
	return crypto.HashByParts([]byte(s.Kind), []byte(s.ApplicationCode), []byte(s.Code))
}

// CertData binds a signer to a subject key for a scope until an expiry.
type CertData struct {
	SigningKey     [crypto.KeySize]byte // the signer's public key
	PublicKey      [crypto.KeySize]byte // the subject key being certified
	Scope          Scope
	ExpirationDate time.Time
}

// Hash is the value a certifying account signs.
func (d CertData) Hash() [crypto.KeySize]byte {
	scopeHash := d.Scope.Hash()
	date := expiryBytes(d.ExpirationDate)

	return crypto.HashByParts(
		d.SigningKey[:],
		d.PublicKey[:],
		scopeHash[:],
		date[:],
	)
}

// CertificateSize is the width of a serialized certificate:
// signer ‖ subject ‖ scope hash ‖ expiry ‖ signature.
const CertificateSize = 4*crypto.KeySize + crypto.SignatureSize

// Certificate is a signed CertData, the externally verifiable proof that an
// account authorized a subject key for a scope.
type Certificate struct {
	Data      CertData
	Signature [crypto.SignatureSize]byte
}

// Bytes serializes the certificate for external verification.
func (c Certificate) Bytes() [CertificateSize]byte {
	var out [CertificateSize]byte

	scopeHash := c.Data.Scope.Hash()
	date := expiryBytes(c.Data.ExpirationDate)

	copy(out[0:], c.Data.SigningKey[:])
	copy(out[crypto.KeySize:], c.Data.PublicKey[:])
	copy(out[2*crypto.KeySize:], scopeHash[:])
	copy(out[3*crypto.KeySize:], date[:])
	copy(out[4*crypto.KeySize:], c.Signature[:])

	return out
}

// Verify checks the certificate signature under its own signer key.
func (c Certificate) Verify() bool {
	hash := c.Data.Hash()
	return crypto.VerifySignature(c.Data.SigningKey, hash[:], c.Signature[:])
}

// expiryBytes is the expiry's Unix timestamp, little-endian, padded to the
// vault's uniform 32-byte field width.
func expiryBytes(t time.Time) [crypto.KeySize]byte {
	var le [8]byte
	binary.LittleEndian.PutUint64(le[:], uint64(t.Unix()))
	return crypto.To32(le[:])
}

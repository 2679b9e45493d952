// Package model holds the vault's record types and their cryptographic
// lifecycles: accounts, applications, scopes, grant keys, clients and
// authorizations. Records are plain structs related by foreign-key IDs;
// persistence lives behind the internal/storage interfaces.
package model

import "github.com/cardinal-network/identity-vault/internal/crypto"

// Signable is a record that can produce its canonical hash prior to signing.
type Signable interface {
	RecordHash() [crypto.KeySize]byte
}

// Signed is a stored record carrying a detached signature over its
// canonical hash.
type Signed interface {
	Signable
	Signature() []byte
}

// Certifiable is a record whose signature covers full certificate data
// rather than a bare record hash.
type Certifiable interface {
	CertData() CertData
}

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/cardinal-network/identity-vault/internal/crypto"
)

// Write scopes and read grant keys expire a year after issue.
const defaultScopeTTL = 365 * 24 * time.Hour

// WriteScope owns its own Ed25519 key pair, envelope-encrypted under a key
// the account derives from the scope's salt. The record is certified: the
// signature covers (signer, subject key, scope tag, expiry).
type WriteScope struct {
	ID                  string
	ApplicationID       string
	ApplicationCode     string
	Code                string
	DisplayName         string
	Description         string
	PublicKey           [crypto.KeySize]byte
	EncryptedPrivateKey [crypto.EnvelopeSize]byte
	PrivateKeySalt      [crypto.KeySize]byte
	ExpirationDate      time.Time
	Sig                 []byte
	SigningKey          [crypto.KeySize]byte // the certifying account's public key
}

// UnlockedWriteScope additionally holds the scope's cleartext signing key.
type UnlockedWriteScope struct {
	WriteScope
	signingKey *crypto.SigningKey
}

// NewWriteScope issues a write scope under an application: fresh Ed25519
// pair, sealed under an account-derived key, certified by the account.
func NewWriteScope(code string, application *Application, account *UnlockedAccount) (*WriteScope, error) {
	salt, err := crypto.RandomKey()
	if err != nil {
		return nil, err
	}
	signingKey, err := crypto.NewSigningKey()
	if err != nil {
		return nil, err
	}

	encryptionKey := account.GenerateKey(salt)

	scope := &WriteScope{
		ID:                  uuid.NewString(),
		ApplicationID:       application.ID,
		ApplicationCode:     application.Code,
		Code:                code,
		PublicKey:           signingKey.PublicKey(),
		EncryptedPrivateKey: signingKey.EncryptedPrivateKey(encryptionKey),
		PrivateKeySalt:      salt,
		ExpirationDate:      time.Now().UTC().Add(defaultScopeTTL).Truncate(time.Second),
	}

	certificate := account.CertifyRecord(scope)
	scope.SigningKey = certificate.Data.SigningKey
	scope.Sig = certificate.Signature[:]

	return scope, nil
}

// CertData implements Certifiable.
func (s *WriteScope) CertData() CertData {
	return CertData{
		SigningKey:     s.SigningKey,
		PublicKey:      s.PublicKey,
		Scope:          Scope{Kind: ScopeWrite, ApplicationCode: s.ApplicationCode, Code: s.Code},
		ExpirationDate: s.ExpirationDate,
	}
}

// Certificate reassembles the stored record into its certificate form.
func (s *WriteScope) Certificate() Certificate {
	var signature [crypto.SignatureSize]byte
	copy(signature[:], s.Sig)
	return Certificate{Data: s.CertData(), Signature: signature}
}

// VerifyCertified checks the certificate and that it was issued by the
// given account.
func (s *WriteScope) VerifyCertified(account *UnlockedAccount) bool {
	if !crypto.HashEqual(s.SigningKey, account.PublicKey) {
		return false
	}
	return s.Certificate().Verify()
}

// UnlockByAccount rederives the scope's wrap key from the account and
// unseals the signing key.
func (s *WriteScope) UnlockByAccount(account *UnlockedAccount) (*UnlockedWriteScope, error) {
	encryptionKey := account.GenerateKey(s.PrivateKeySalt)
	return s.unlock(encryptionKey)
}

// UnlockByClient recovers the wrap key through an authorization instead:
// the client's secret plus the authorization's sender key reproduce the
// access key the account sealed at issue time.
func (s *WriteScope) UnlockByClient(client *UnlockedClient, authorization *WriteAuthorization) (*UnlockedWriteScope, error) {
	encryptionKey, err := client.UnlockKey(authorization.PublicKey, authorization.EncryptedAccessKey)
	if err != nil {
		return nil, err
	}
	return s.unlock(encryptionKey)
}

func (s *WriteScope) unlock(encryptionKey [crypto.KeySize]byte) (*UnlockedWriteScope, error) {
	signingKey, err := crypto.SigningKeyFromEncrypted(encryptionKey, s.EncryptedPrivateKey)
	if err != nil {
		return nil, err
	}

	return &UnlockedWriteScope{
		WriteScope: *s,
		signingKey: signingKey,
	}, nil
}

// Sign signs data with the scope's own key.
func (u *UnlockedWriteScope) Sign(data []byte) []byte {
	return u.signingKey.Sign(data)
}

// Verify checks a signature under the scope's public key.
func (u *UnlockedWriteScope) Verify(data, signature []byte) bool {
	return crypto.VerifySignature(u.PublicKey, data, signature)
}

// Authorize seals the scope's access key to a client. The resulting record
// must be persisted by the caller.
func (u *UnlockedWriteScope) Authorize(account *UnlockedAccount, client *Client) (*WriteAuthorization, error) {
	accessKey := account.GenerateKey(u.PrivateKeySalt)
	return newWriteAuthorization(account, client, u.ID, accessKey)
}

// Close scrubs the scope's cleartext signing key.
func (u *UnlockedWriteScope) Close() {
	u.signingKey.Wipe()
}

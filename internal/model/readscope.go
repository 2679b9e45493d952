package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/cardinal-network/identity-vault/internal/crypto"
)

// ReadScope is a signed record grouping zero or more dated X25519 grant
// keys. The scope itself carries no key material; read capacity is added by
// issuing another grant key under it.
type ReadScope struct {
	ID              string
	ApplicationID   string
	ApplicationCode string
	Code            string
	DisplayName     string
	Description     string
	Sig             []byte
}

// UnlockedReadScope pairs the scope with its unlocked grant keys.
type UnlockedReadScope struct {
	ReadScope
	Keys []*UnlockedReadGrantKey
}

// NewReadScope creates and signs a read scope under an application.
func NewReadScope(code string, application *Application, account *UnlockedAccount) *ReadScope {
	scope := &ReadScope{
		ID:              uuid.NewString(),
		ApplicationID:   application.ID,
		ApplicationCode: application.Code,
		Code:            code,
	}

	scope.Sig = account.SignRecord(scope)
	return scope
}

// RecordHash implements Signable.
func (s *ReadScope) RecordHash() [crypto.KeySize]byte {
	return crypto.HashByParts(
		[]byte(s.ApplicationCode),
		[]byte(s.Code),
	)
}

// Signature implements Signed.
func (s *ReadScope) Signature() []byte {
	return s.Sig
}

// ToUnlocked assembles an unlocked view over already-loaded grant keys.
func (s *ReadScope) ToUnlocked(account *UnlockedAccount, keys []*ReadGrantKey) (*UnlockedReadScope, error) {
	unlocked := make([]*UnlockedReadGrantKey, 0, len(keys))
	for _, key := range keys {
		unlockedKey, err := key.UnlockByAccount(account)
		if err != nil {
			return nil, err
		}
		unlocked = append(unlocked, unlockedKey)
	}

	return &UnlockedReadScope{
		ReadScope: *s,
		Keys:      unlocked,
	}, nil
}

// Authorize seals every current grant key to the client. Keys issued later
// need their own authorization; keys issued earlier keep theirs.
func (u *UnlockedReadScope) Authorize(account *UnlockedAccount, client *Client) ([]*ReadAuthorization, error) {
	authorizations := make([]*ReadAuthorization, 0, len(u.Keys))
	for _, key := range u.Keys {
		authorization, err := key.Authorize(account, client)
		if err != nil {
			return nil, err
		}
		authorizations = append(authorizations, authorization)
	}
	return authorizations, nil
}

// Close scrubs every unlocked grant key.
func (u *UnlockedReadScope) Close() {
	for _, key := range u.Keys {
		key.Close()
	}
}

// ReadGrantKey is one dated X25519 key pair under a read scope, certified
// by the owning account. The application and scope codes are carried so the
// certificate's scope tag can be recomputed without a join at call sites.
type ReadGrantKey struct {
	ID                  string
	ReadScopeID         string
	ApplicationCode     string
	ScopeCode           string
	PublicKey           [crypto.KeySize]byte
	EncryptedPrivateKey [crypto.EnvelopeSize]byte
	PrivateKeySalt      [crypto.KeySize]byte
	ExpirationDate      time.Time
	Sig                 []byte
	SigningKey          [crypto.KeySize]byte
}

// UnlockedReadGrantKey additionally holds the cleartext exchange key.
type UnlockedReadGrantKey struct {
	ReadGrantKey
	exchangeKey *crypto.ExchangeKey
}

// NewReadGrantKey issues a fresh grant key under a scope: X25519 pair,
// sealed under an account-derived key, certified by the account.
func NewReadGrantKey(scope *ReadScope, account *UnlockedAccount) (*ReadGrantKey, error) {
	salt, err := crypto.RandomKey()
	if err != nil {
		return nil, err
	}
	exchangeKey, err := crypto.NewExchangeKey()
	if err != nil {
		return nil, err
	}

	encryptionKey := account.GenerateKey(salt)

	key := &ReadGrantKey{
		ID:                  uuid.NewString(),
		ReadScopeID:         scope.ID,
		ApplicationCode:     scope.ApplicationCode,
		ScopeCode:           scope.Code,
		PublicKey:           exchangeKey.PublicKey(),
		EncryptedPrivateKey: exchangeKey.EncryptedSecretKey(encryptionKey),
		PrivateKeySalt:      salt,
		ExpirationDate:      time.Now().UTC().Add(defaultScopeTTL).Truncate(time.Second),
	}

	certificate := account.CertifyRecord(key)
	key.SigningKey = certificate.Data.SigningKey
	key.Sig = certificate.Signature[:]

	return key, nil
}

// CertData implements Certifiable.
func (k *ReadGrantKey) CertData() CertData {
	return CertData{
		SigningKey:     k.SigningKey,
		PublicKey:      k.PublicKey,
		Scope:          Scope{Kind: ScopeRead, ApplicationCode: k.ApplicationCode, Code: k.ScopeCode},
		ExpirationDate: k.ExpirationDate,
	}
}

// Certificate reassembles the stored record into its certificate form.
func (k *ReadGrantKey) Certificate() Certificate {
	var signature [crypto.SignatureSize]byte
	copy(signature[:], k.Sig)
	return Certificate{Data: k.CertData(), Signature: signature}
}

// VerifyCertified checks the certificate and its issuer.
func (k *ReadGrantKey) VerifyCertified(account *UnlockedAccount) bool {
	if !crypto.HashEqual(k.SigningKey, account.PublicKey) {
		return false
	}
	return k.Certificate().Verify()
}

// UnlockByAccount rederives the wrap key and unseals the exchange key.
func (k *ReadGrantKey) UnlockByAccount(account *UnlockedAccount) (*UnlockedReadGrantKey, error) {
	encryptionKey := account.GenerateKey(k.PrivateKeySalt)

	exchangeKey, err := crypto.ExchangeKeyFromEncrypted(encryptionKey, k.EncryptedPrivateKey)
	if err != nil {
		return nil, err
	}

	return &UnlockedReadGrantKey{
		ReadGrantKey: *k,
		exchangeKey:  exchangeKey,
	}, nil
}

// UnlockByClient recovers the exchange key through a read authorization.
func (k *ReadGrantKey) UnlockByClient(client *UnlockedClient, authorization *ReadAuthorization) (*UnlockedReadGrantKey, error) {
	encryptionKey, err := client.UnlockKey(authorization.PublicKey, authorization.EncryptedAccessKey)
	if err != nil {
		return nil, err
	}

	exchangeKey, err := crypto.ExchangeKeyFromEncrypted(encryptionKey, k.EncryptedPrivateKey)
	if err != nil {
		return nil, err
	}

	return &UnlockedReadGrantKey{
		ReadGrantKey: *k,
		exchangeKey:  exchangeKey,
	}, nil
}

// Authorize seals this grant key's access key to a client.
func (u *UnlockedReadGrantKey) Authorize(account *UnlockedAccount, client *Client) (*ReadAuthorization, error) {
	accessKey := account.GenerateKey(u.PrivateKeySalt)
	return newReadAuthorization(account, client, u.ID, accessKey)
}

// SharedKey runs the grant key's half of a key exchange.
func (u *UnlockedReadGrantKey) SharedKey(peerPublicKey [crypto.KeySize]byte) ([crypto.KeySize]byte, error) {
	return u.exchangeKey.SharedKey(peerPublicKey)
}

// Close drops the reference to the cleartext exchange key.
func (u *UnlockedReadGrantKey) Close() {
	u.exchangeKey = nil
}

package model

import (
	"github.com/google/uuid"

	"github.com/cardinal-network/identity-vault/internal/crypto"
)

// WriteAuthorization lets one client recover one write scope's access key.
// The access key is sealed under a key agreed between a single-use sender
// key and the client's public key; the account signs the whole tuple.
type WriteAuthorization struct {
	ID                 string
	ClientID           [crypto.KeySize]byte
	WriteScopeID       string
	EncryptedAccessKey [crypto.EnvelopeSize]byte
	PublicKey          [crypto.KeySize]byte // the single-use sender key
	Sig                []byte
}

// RecordHash implements Signable.
func (w *WriteAuthorization) RecordHash() [crypto.KeySize]byte {
	return crypto.HashByParts(
		w.ClientID[:],
		[]byte(w.WriteScopeID),
		w.EncryptedAccessKey[:],
		w.PublicKey[:],
	)
}

// Signature implements Signed.
func (w *WriteAuthorization) Signature() []byte {
	return w.Sig
}

// ReadAuthorization is the per-grant-key analogue of WriteAuthorization.
// Issuing a new grant key under a scope never touches the authorizations
// that point at older keys.
type ReadAuthorization struct {
	ID                 string
	ClientID           [crypto.KeySize]byte
	ReadGrantKeyID     string
	EncryptedAccessKey [crypto.EnvelopeSize]byte
	PublicKey          [crypto.KeySize]byte
	Sig                []byte
}

// RecordHash implements Signable.
func (r *ReadAuthorization) RecordHash() [crypto.KeySize]byte {
	return crypto.HashByParts(
		r.ClientID[:],
		[]byte(r.ReadGrantKeyID),
		r.EncryptedAccessKey[:],
		r.PublicKey[:],
	)
}

// Signature implements Signed.
func (r *ReadAuthorization) Signature() []byte {
	return r.Sig
}

// sealAccessKey runs the shared issue path: generate a single-use X25519
// key, agree a wrap key with the client, and seal the access key under it.
func sealAccessKey(accessKey, clientID [crypto.KeySize]byte) (envelope [crypto.EnvelopeSize]byte, senderPublic [crypto.KeySize]byte, err error) {
	ephemeral, err := crypto.NewExchangeKey()
	if err != nil {
		return envelope, senderPublic, err
	}

	wrapKey, err := ephemeral.SharedKey(clientID)
	if err != nil {
		return envelope, senderPublic, err
	}

	return crypto.Encrypt32(accessKey, wrapKey), ephemeral.PublicKey(), nil
}

// newWriteAuthorization issues a signed write authorization.
func newWriteAuthorization(account *UnlockedAccount, client *Client, scopeID string, accessKey [crypto.KeySize]byte) (*WriteAuthorization, error) {
	envelope, senderPublic, err := sealAccessKey(accessKey, client.ClientID)
	if err != nil {
		return nil, err
	}

	authorization := &WriteAuthorization{
		ID:                 uuid.NewString(),
		ClientID:           client.ClientID,
		WriteScopeID:       scopeID,
		EncryptedAccessKey: envelope,
		PublicKey:          senderPublic,
	}

	authorization.Sig = account.SignRecord(authorization)
	return authorization, nil
}

// newReadAuthorization issues a signed read authorization for one grant key.
func newReadAuthorization(account *UnlockedAccount, client *Client, grantKeyID string, accessKey [crypto.KeySize]byte) (*ReadAuthorization, error) {
	envelope, senderPublic, err := sealAccessKey(accessKey, client.ClientID)
	if err != nil {
		return nil, err
	}

	authorization := &ReadAuthorization{
		ID:                 uuid.NewString(),
		ClientID:           client.ClientID,
		ReadGrantKeyID:     grantKeyID,
		EncryptedAccessKey: envelope,
		PublicKey:          senderPublic,
	}

	authorization.Sig = account.SignRecord(authorization)
	return authorization, nil
}

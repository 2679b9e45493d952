package model

import (
	"github.com/google/uuid"

	"github.com/cardinal-network/identity-vault/internal/crypto"
)

// Client is a third-party identity. The client's id IS its X25519 public
// key; the matching secret is returned exactly once at creation and never
// stored.
type Client struct {
	ID              string
	ClientID        [crypto.KeySize]byte
	ApplicationID   string
	ApplicationCode string
	Sig             []byte
}

// UnlockedClient pairs the record with the client-held exchange key.
type UnlockedClient struct {
	Client
	exchangeKey *crypto.ExchangeKey
}

// NewClient mints a client under an application. The returned secret is the
// caller's only chance to capture it.
func NewClient(account *UnlockedAccount, application *Application) ([crypto.KeySize]byte, *Client, error) {
	exchangeKey, err := crypto.NewExchangeKey()
	if err != nil {
		return [crypto.KeySize]byte{}, nil, err
	}

	client := &Client{
		ID:              uuid.NewString(),
		ClientID:        exchangeKey.PublicKey(),
		ApplicationID:   application.ID,
		ApplicationCode: application.Code,
	}

	client.Sig = account.SignRecord(client)

	return exchangeKey.SecretKey(), client, nil
}

// RecordHash implements Signable.
func (c *Client) RecordHash() [crypto.KeySize]byte {
	return crypto.HashByParts(
		[]byte(c.ApplicationCode),
		c.ClientID[:],
	)
}

// Signature implements Signed.
func (c *Client) Signature() []byte {
	return c.Sig
}

// ToUnlocked rehydrates the exchange key from the secret the caller kept.
// The secret is not checked against ClientID here; a mismatched secret
// surfaces as FailedVerification when an envelope is opened.
func (c *Client) ToUnlocked(secretToken [crypto.KeySize]byte) (*UnlockedClient, error) {
	exchangeKey, err := crypto.ExchangeKeyFromSecret(secretToken)
	if err != nil {
		return nil, err
	}

	return &UnlockedClient{
		Client:      *c,
		exchangeKey: exchangeKey,
	}, nil
}

// UnlockKey opens an authorization envelope: DH against the sender's
// single-use key, then unseal. This is the primitive a client uses offline
// to recover any access key a scope issued it.
func (u *UnlockedClient) UnlockKey(senderPublicKey [crypto.KeySize]byte, envelope [crypto.EnvelopeSize]byte) ([crypto.KeySize]byte, error) {
	wrapKey, err := u.exchangeKey.SharedKey(senderPublicKey)
	if err != nil {
		return [crypto.KeySize]byte{}, err
	}
	return crypto.Decrypt32(envelope, wrapKey)
}

// Close drops the reference to the cleartext exchange key.
func (u *UnlockedClient) Close() {
	u.exchangeKey = nil
}

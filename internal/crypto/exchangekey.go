package crypto

import (
	"crypto/ecdh"
	"crypto/rand"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
)

// ExchangeKey wraps an X25519 key pair. Long-lived instances back read grant
// keys and client identities; single-use instances supply the ephemeral side
// of every authorization envelope.
type ExchangeKey struct {
	key *ecdh.PrivateKey
}

// NewExchangeKey generates a fresh X25519 key pair.
func NewExchangeKey() (*ExchangeKey, error) {
	key, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, cerr.LibraryError("generate exchange key", err)
	}
	return &ExchangeKey{key: key}, nil
}

// ExchangeKeyFromSecret rebuilds a key pair from its 32-byte secret.
func ExchangeKeyFromSecret(secret [KeySize]byte) (*ExchangeKey, error) {
	key, err := ecdh.X25519().NewPrivateKey(secret[:])
	if err != nil {
		return nil, cerr.LibraryError("restore exchange key", err)
	}
	return &ExchangeKey{key: key}, nil
}

// ExchangeKeyFromEncrypted unseals an Encrypt32 envelope and rebuilds the
// key pair.
func ExchangeKeyFromEncrypted(encryptionKey [KeySize]byte, encrypted [EnvelopeSize]byte) (*ExchangeKey, error) {
	secret, err := Decrypt32(encrypted, encryptionKey)
	if err != nil {
		return nil, err
	}
	return ExchangeKeyFromSecret(secret)
}

// PublicKey returns the 32-byte X25519 public key.
func (k *ExchangeKey) PublicKey() [KeySize]byte {
	return To32(k.key.PublicKey().Bytes())
}

// SecretKey returns the raw 32-byte secret. Callers own the copy.
func (k *ExchangeKey) SecretKey() [KeySize]byte {
	return To32(k.key.Bytes())
}

// EncryptedSecretKey seals the secret under encryptionKey.
func (k *ExchangeKey) EncryptedSecretKey(encryptionKey [KeySize]byte) [EnvelopeSize]byte {
	return Encrypt32(k.SecretKey(), encryptionKey)
}

// SharedKey runs X25519 against the peer's public key and hashes the shared
// secret down to a uniformly distributed 32-byte key.
func (k *ExchangeKey) SharedKey(peerPublicKey [KeySize]byte) ([KeySize]byte, error) {
	peer, err := ecdh.X25519().NewPublicKey(peerPublicKey[:])
	if err != nil {
		return [KeySize]byte{}, cerr.LibraryError("parse peer key", err)
	}

	shared, err := k.key.ECDH(peer)
	if err != nil {
		return [KeySize]byte{}, cerr.LibraryError("key exchange", err)
	}

	return SecureHash(shared), nil
}

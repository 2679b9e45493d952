package crypto

import "crypto/ed25519"

// SigningKey wraps an Ed25519 key pair kept as its 32-byte seed so it can be
// sealed into a 64-byte envelope and restored later.
type SigningKey struct {
	seed [KeySize]byte
	priv ed25519.PrivateKey
}

// NewSigningKey generates a fresh Ed25519 key pair.
func NewSigningKey() (*SigningKey, error) {
	seed, err := RandomKey()
	if err != nil {
		return nil, err
	}
	return SigningKeyFromSeed(seed), nil
}

// SigningKeyFromSeed rebuilds a key pair from its seed.
func SigningKeyFromSeed(seed [KeySize]byte) *SigningKey {
	return &SigningKey{
		seed: seed,
		priv: ed25519.NewKeyFromSeed(seed[:]),
	}
}

// SigningKeyFromEncrypted unseals an Encrypt32 envelope and rebuilds the key
// pair. Fails if the envelope's verification hash does not match.
func SigningKeyFromEncrypted(encryptionKey [KeySize]byte, encrypted [EnvelopeSize]byte) (*SigningKey, error) {
	seed, err := Decrypt32(encrypted, encryptionKey)
	if err != nil {
		return nil, err
	}
	return SigningKeyFromSeed(seed), nil
}

// Sign returns the 64-byte Ed25519 signature over data.
func (k *SigningKey) Sign(data []byte) []byte {
	return ed25519.Sign(k.priv, data)
}

// Verify checks a signature against this key pair's public key.
func (k *SigningKey) Verify(message, signature []byte) bool {
	return VerifySignature(k.PublicKey(), message, signature)
}

// PublicKey returns the 32-byte Ed25519 public key.
func (k *SigningKey) PublicKey() [KeySize]byte {
	var out [KeySize]byte
	copy(out[:], k.priv.Public().(ed25519.PublicKey))
	return out
}

// EncryptedPrivateKey seals the seed under encryptionKey.
func (k *SigningKey) EncryptedPrivateKey(encryptionKey [KeySize]byte) [EnvelopeSize]byte {
	return Encrypt32(k.seed, encryptionKey)
}

// Wipe zeroes the held seed and private key.
func (k *SigningKey) Wipe() {
	Wipe(k.seed[:])
	Wipe(k.priv)
}

// VerifySignature checks an Ed25519 signature under the given public key.
// Malformed keys or signatures verify as false rather than erroring.
func VerifySignature(publicKey [KeySize]byte, message, signature []byte) bool {
	if len(signature) != SignatureSize {
		return false
	}
	return ed25519.Verify(publicKey[:], message, signature)
}

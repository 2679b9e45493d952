package crypto

import (
	"crypto/subtle"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
)

// Encrypt32 seals a 32-byte value under a 32-byte key: the first half of the
// envelope is the XOR ciphertext, the second half is SHA-512/256 of the
// plaintext. The key must never be reused for a second plaintext; every call
// site derives a fresh key from a random salt or a fresh Diffie-Hellman.
func Encrypt32(input, key [KeySize]byte) [EnvelopeSize]byte {
	check := SecureHash(input[:])

	var encrypted [EnvelopeSize]byte
	for i := 0; i < KeySize; i++ {
		encrypted[i] = input[i] ^ key[i]
		encrypted[i+KeySize] = check[i]
	}

	return encrypted
}

// Decrypt32 reverses Encrypt32. The verification-hash comparison is
// constant-time; any mismatch reports FailedVerification with no detail
// about which byte differed.
func Decrypt32(encrypted [EnvelopeSize]byte, key [KeySize]byte) ([KeySize]byte, error) {
	var decrypted [KeySize]byte
	for i := 0; i < KeySize; i++ {
		decrypted[i] = encrypted[i] ^ key[i]
	}

	check := SecureHash(decrypted[:])
	if subtle.ConstantTimeCompare(check[:], encrypted[KeySize:]) != 1 {
		return [KeySize]byte{}, cerr.FailedVerification("envelope")
	}

	return decrypted, nil
}

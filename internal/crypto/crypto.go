// Package crypto implements the vault's primitive layer: argon2i password
// hashing, SHA-512/256 hashing, the 64-byte XOR envelope, Ed25519 signing
// keys and X25519 exchange keys. Everything here is a pure function over
// byte arrays; persistence and record semantics live in internal/model.
package crypto

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the width of every public key, secret key, symmetric key,
	// salt and hash handled by the vault.
	KeySize = 32
	// EnvelopeSize is ciphertext plus verification hash.
	EnvelopeSize = 64
	// SignatureSize is the width of an Ed25519 signature.
	SignatureSize = 64
)

// argon2i parameters. Kept modest: the KDF runs on every unlock.
const (
	argonTime    = 3
	argonMemory  = 4096
	argonThreads = 1
)

// HashSaltedPassword derives a 32-byte key from a password and salt.
func HashSaltedPassword(password string, salt []byte) [KeySize]byte {
	var out [KeySize]byte
	copy(out[:], argon2.Key([]byte(password), salt, argonTime, argonMemory, argonThreads, KeySize))
	return out
}

// HashPassword returns base64(salt || argon2i(password, salt)) with a fresh
// random salt, the storable form of a password or export key.
func HashPassword(password string) (string, error) {
	salt, err := RandomKey()
	if err != nil {
		return "", err
	}

	hash := HashSaltedPassword(password, salt[:])

	merged := make([]byte, 0, EnvelopeSize)
	merged = append(merged, salt[:]...)
	merged = append(merged, hash[:]...)

	return base64.StdEncoding.EncodeToString(merged), nil
}

// CheckPassword reports whether password matches a HashPassword output.
// The hash comparison is constant-time.
func CheckPassword(password, hashedPassword string) bool {
	merged, err := base64.StdEncoding.DecodeString(hashedPassword)
	if err != nil || len(merged) != EnvelopeSize {
		return false
	}

	var stored [KeySize]byte
	copy(stored[:], merged[KeySize:])

	fresh := HashSaltedPassword(password, merged[:KeySize])
	return HashEqual(stored, fresh)
}

// HashEqual is a constant-time equality check for 32-byte arrays.
func HashEqual(a, b [KeySize]byte) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// SecureHash returns SHA-512/256 over the concatenation of the given slices.
func SecureHash(parts ...[]byte) [KeySize]byte {
	hasher := sha512.New512_256()
	for _, part := range parts {
		hasher.Write(part)
	}

	var out [KeySize]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

// HashByParts pre-hashes each part independently, then hashes the
// concatenation of the per-part hashes. Variable-width fields therefore
// cannot shift bytes into a neighbouring field's position.
func HashByParts(parts ...[]byte) [KeySize]byte {
	hasher := sha512.New512_256()
	for _, part := range parts {
		partHash := SecureHash(part)
		hasher.Write(partHash[:])
	}

	var out [KeySize]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

// RandomKey returns 32 bytes from the system CSPRNG.
func RandomKey() ([KeySize]byte, error) {
	var out [KeySize]byte
	if _, err := rand.Read(out[:]); err != nil {
		return out, fmt.Errorf("read random: %w", err)
	}
	return out, nil
}

// Wipe zeroes a byte slice holding key material.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// To32 copies up to 32 bytes of data into a fixed array.
func To32(data []byte) [KeySize]byte {
	var out [KeySize]byte
	copy(out[:], data)
	return out
}

// To64 copies up to 64 bytes of data into a fixed array.
func To64(data []byte) [EnvelopeSize]byte {
	var out [EnvelopeSize]byte
	copy(out[:], data)
	return out
}

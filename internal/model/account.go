package model

import (
	"encoding/base64"

	"github.com/google/uuid"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/internal/crypto"
)

// Account is the root signing identity in its locked (disk) form. The
// private key and master key appear only envelope-encrypted; possession of
// the row proves nothing without the password.
//
// The derivation chain on unlock:
//
//	master_encryption_key = argon2i(password, master_key_salt)
//	master_key            = decrypt32(encrypted_master_key, master_encryption_key)
//	signing_seed          = decrypt32(encrypted_private_key, master_key)
//
// The random master key sitting between the password and every subordinate
// key is what makes password change O(1): only the salt and the master-key
// envelope are rewritten.
type Account struct {
	ID                  string
	Name                string
	PasswordHash        string
	ExportKeyHash       string
	PublicKey           [crypto.KeySize]byte
	EncryptedPrivateKey [crypto.EnvelopeSize]byte
	MasterKeySalt       [crypto.KeySize]byte
	EncryptedMasterKey  [crypto.EnvelopeSize]byte
	IsAdmin             bool
}

// UnlockedAccount holds the cleartext master key and signing key. It must
// not be shared across goroutines and must be closed when finished with.
type UnlockedAccount struct {
	Account
	masterKey  [crypto.KeySize]byte
	signingKey *crypto.SigningKey
}

// NewAccount creates an account from a fresh Ed25519 key pair.
func NewAccount(name, password, exportKey string, isAdmin bool) (*Account, error) {
	signingKey, err := crypto.NewSigningKey()
	if err != nil {
		return nil, err
	}
	return NewAccountWithKey(name, password, exportKey, signingKey, isAdmin)
}

// NewAccountWithKey wraps an existing signing key into a new account. Used
// directly by portable import.
func NewAccountWithKey(name, password, exportKey string, signingKey *crypto.SigningKey, isAdmin bool) (*Account, error) {
	masterKey, err := crypto.RandomKey()
	if err != nil {
		return nil, err
	}
	masterKeySalt, err := crypto.RandomKey()
	if err != nil {
		return nil, err
	}

	masterEncryptionKey := crypto.HashSaltedPassword(password, masterKeySalt[:])

	passwordHash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	exportKeyHash, err := crypto.HashPassword(exportKey)
	if err != nil {
		return nil, err
	}

	account := &Account{
		ID:                  uuid.NewString(),
		Name:                name,
		PasswordHash:        passwordHash,
		ExportKeyHash:       exportKeyHash,
		PublicKey:           signingKey.PublicKey(),
		EncryptedPrivateKey: signingKey.EncryptedPrivateKey(masterKey),
		MasterKeySalt:       masterKeySalt,
		EncryptedMasterKey:  crypto.Encrypt32(masterKey, masterEncryptionKey),
		IsAdmin:             isAdmin,
	}

	crypto.Wipe(masterKey[:])
	return account, nil
}

// Unlock verifies the password and walks the derivation chain. Every
// failure surfaces as CouldNotAuthenticate: a wrong password and a
// tampered envelope are indistinguishable by design.
func (a *Account) Unlock(password string) (*UnlockedAccount, error) {
	if !crypto.CheckPassword(password, a.PasswordHash) {
		return nil, cerr.CouldNotAuthenticate()
	}

	masterEncryptionKey := crypto.HashSaltedPassword(password, a.MasterKeySalt[:])

	masterKey, err := crypto.Decrypt32(a.EncryptedMasterKey, masterEncryptionKey)
	if err != nil {
		return nil, cerr.CouldNotAuthenticate()
	}

	signingKey, err := crypto.SigningKeyFromEncrypted(masterKey, a.EncryptedPrivateKey)
	if err != nil {
		return nil, cerr.CouldNotAuthenticate()
	}

	return &UnlockedAccount{
		Account:    *a,
		masterKey:  masterKey,
		signingKey: signingKey,
	}, nil
}

// Sign signs arbitrary data with the account's Ed25519 key.
func (u *UnlockedAccount) Sign(data []byte) []byte {
	return u.signingKey.Sign(data)
}

// Verify checks a signature under the account's public key.
func (u *UnlockedAccount) Verify(data, signature []byte) bool {
	return crypto.VerifySignature(u.PublicKey, data, signature)
}

// SignRecord signs a record's canonical hash.
func (u *UnlockedAccount) SignRecord(record Signable) []byte {
	hash := record.RecordHash()
	return u.signingKey.Sign(hash[:])
}

// VerifyRecord recomputes a record's canonical hash and checks its
// signature under the account's public key.
func (u *UnlockedAccount) VerifyRecord(record Signed) bool {
	hash := record.RecordHash()
	return crypto.VerifySignature(u.PublicKey, hash[:], record.Signature())
}

// CertifyRecord signs full certificate data on behalf of this account. The
// signer field is forced to the account's own public key.
func (u *UnlockedAccount) CertifyRecord(record Certifiable) Certificate {
	data := record.CertData()
	data.SigningKey = u.PublicKey

	hash := data.Hash()

	var signature [crypto.SignatureSize]byte
	copy(signature[:], u.signingKey.Sign(hash[:]))

	return Certificate{Data: data, Signature: signature}
}

// GenerateKey derives a subordinate wrap key from the master key and a
// salt. Each distinct salt yields an unrelated key.
func (u *UnlockedAccount) GenerateKey(salt [crypto.KeySize]byte) [crypto.KeySize]byte {
	return crypto.SecureHash(u.masterKey[:], salt[:])
}

// ChangePassword rewraps the master key under a key derived from the new
// password and a fresh salt. The master key itself does not rotate, so
// subordinate envelopes and the public key are untouched.
func (u *UnlockedAccount) ChangePassword(newPassword string) error {
	salt, err := crypto.RandomKey()
	if err != nil {
		return err
	}
	passwordHash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}

	masterEncryptionKey := crypto.HashSaltedPassword(newPassword, salt[:])

	u.MasterKeySalt = salt
	u.EncryptedMasterKey = crypto.Encrypt32(u.masterKey, masterEncryptionKey)
	u.PasswordHash = passwordHash
	return nil
}

// Close scrubs the cleartext key material. The unlocked account must not
// be used afterwards.
func (u *UnlockedAccount) Close() {
	crypto.Wipe(u.masterKey[:])
	u.signingKey.Wipe()
}

// PortableAccount is the base64/JSON exchange form of an account's signing
// identity, wrapped under a passphrase instead of the local password.
type PortableAccount struct {
	PublicKey           string                `json:"public_key"`
	PrivateKeySalt      string                `json:"private_key_salt"`
	EncryptedPrivateKey string                `json:"encrypted_private_key"`
	Applications        []PortableApplication `json:"applications"`
}

// ToPortable releases the signing key re-encrypted under a passphrase.
// The export key must match before anything is emitted.
func (u *UnlockedAccount) ToPortable(exportKey, passphrase string) (*PortableAccount, error) {
	if !crypto.CheckPassword(exportKey, u.ExportKeyHash) {
		return nil, cerr.CouldNotAuthenticate()
	}

	salt, err := crypto.RandomKey()
	if err != nil {
		return nil, err
	}

	encryptionKey := crypto.HashSaltedPassword(passphrase, salt[:])
	encrypted := u.signingKey.EncryptedPrivateKey(encryptionKey)

	return &PortableAccount{
		PublicKey:           base64.StdEncoding.EncodeToString(u.PublicKey[:]),
		PrivateKeySalt:      base64.StdEncoding.EncodeToString(salt[:]),
		EncryptedPrivateKey: base64.StdEncoding.EncodeToString(encrypted[:]),
	}, nil
}

// AccountFromPortable rebuilds an account around an imported signing key,
// choosing a fresh local password, export key and master key.
func AccountFromPortable(name, password, exportKey, passphrase string, portable *PortableAccount) (*Account, error) {
	salt, err := base64.StdEncoding.DecodeString(portable.PrivateKeySalt)
	if err != nil {
		return nil, cerr.LibraryError("decode private key salt", err)
	}
	encrypted, err := base64.StdEncoding.DecodeString(portable.EncryptedPrivateKey)
	if err != nil {
		return nil, cerr.LibraryError("decode encrypted private key", err)
	}

	encryptionKey := crypto.HashSaltedPassword(passphrase, salt)

	signingKey, err := crypto.SigningKeyFromEncrypted(encryptionKey, crypto.To64(encrypted))
	if err != nil {
		return nil, cerr.CouldNotAuthenticate()
	}

	return NewAccountWithKey(name, password, exportKey, signingKey, false)
}

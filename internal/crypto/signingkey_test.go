package crypto

import "testing"

func TestSigningKeySignVerify(t *testing.T) {
	key, err := NewSigningKey()
	if err != nil {
		t.Fatalf("new signing key: %v", err)
	}

	signature := key.Sign([]byte("hello"))
	if len(signature) != SignatureSize {
		t.Fatalf("unexpected signature length %d", len(signature))
	}
	if !key.Verify([]byte("hello"), signature) {
		t.Fatal("valid signature rejected")
	}
	if key.Verify([]byte("hellp"), signature) {
		t.Fatal("signature verified over mutated message")
	}

	signature[0] ^= 1
	if key.Verify([]byte("hello"), signature) {
		t.Fatal("mutated signature accepted")
	}
}

func TestSigningKeyEncryptedRoundTrip(t *testing.T) {
	key, err := NewSigningKey()
	if err != nil {
		t.Fatalf("new signing key: %v", err)
	}
	wrapKey, err := RandomKey()
	if err != nil {
		t.Fatalf("random: %v", err)
	}

	encrypted := key.EncryptedPrivateKey(wrapKey)

	restored, err := SigningKeyFromEncrypted(wrapKey, encrypted)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.PublicKey() != key.PublicKey() {
		t.Fatal("restored key has a different public key")
	}

	signature := key.Sign([]byte("Info to sign"))
	if !restored.Verify([]byte("Info to sign"), signature) {
		t.Fatal("restored key cannot verify original signature")
	}
}

func TestSigningKeyFromEncryptedWrongKey(t *testing.T) {
	key, _ := NewSigningKey()
	wrapKey, _ := RandomKey()
	wrong, _ := RandomKey()

	encrypted := key.EncryptedPrivateKey(wrapKey)
	if _, err := SigningKeyFromEncrypted(wrong, encrypted); err == nil {
		t.Fatal("wrong wrap key accepted")
	}
}

func TestVerifySignatureMalformedInputs(t *testing.T) {
	key, _ := NewSigningKey()
	if VerifySignature(key.PublicKey(), []byte("data"), []byte("short")) {
		t.Fatal("short signature accepted")
	}
	if VerifySignature([KeySize]byte{}, []byte("data"), make([]byte, SignatureSize)) {
		t.Fatal("zero key verified a zero signature")
	}
}

package crypto

import "testing"

func TestSharedKeyAgreement(t *testing.T) {
	alice, err := NewExchangeKey()
	if err != nil {
		t.Fatalf("new exchange key: %v", err)
	}
	bob, err := NewExchangeKey()
	if err != nil {
		t.Fatalf("new exchange key: %v", err)
	}

	fromAlice, err := alice.SharedKey(bob.PublicKey())
	if err != nil {
		t.Fatalf("alice shared key: %v", err)
	}
	fromBob, err := bob.SharedKey(alice.PublicKey())
	if err != nil {
		t.Fatalf("bob shared key: %v", err)
	}

	if fromAlice != fromBob {
		t.Fatal("shared keys disagree")
	}
}

func TestExchangeKeyEncryptedRoundTrip(t *testing.T) {
	key, err := NewExchangeKey()
	if err != nil {
		t.Fatalf("new exchange key: %v", err)
	}
	wrapKey, err := RandomKey()
	if err != nil {
		t.Fatalf("random: %v", err)
	}

	encrypted := key.EncryptedSecretKey(wrapKey)

	restored, err := ExchangeKeyFromEncrypted(wrapKey, encrypted)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.PublicKey() != key.PublicKey() {
		t.Fatal("restored key has a different public key")
	}
}

func TestExchangeKeyFromSecretMatchesOriginal(t *testing.T) {
	key, _ := NewExchangeKey()

	restored, err := ExchangeKeyFromSecret(key.SecretKey())
	if err != nil {
		t.Fatalf("restore from secret: %v", err)
	}
	if restored.PublicKey() != key.PublicKey() {
		t.Fatal("secret does not rebuild the same pair")
	}
}

// A one-shot sender key plus the receiver's long-lived key is how every
// authorization envelope is sealed; both ends must derive the same wrap key.
func TestEphemeralEnvelopeFlow(t *testing.T) {
	receiver, _ := NewExchangeKey()
	ephemeral, _ := NewExchangeKey()

	accessKey, _ := RandomKey()

	wrapKey, err := ephemeral.SharedKey(receiver.PublicKey())
	if err != nil {
		t.Fatalf("sender shared key: %v", err)
	}
	envelope := Encrypt32(accessKey, wrapKey)

	receiverWrap, err := receiver.SharedKey(ephemeral.PublicKey())
	if err != nil {
		t.Fatalf("receiver shared key: %v", err)
	}
	opened, err := Decrypt32(envelope, receiverWrap)
	if err != nil {
		t.Fatalf("open envelope: %v", err)
	}
	if opened != accessKey {
		t.Fatal("access key did not survive the envelope")
	}
}

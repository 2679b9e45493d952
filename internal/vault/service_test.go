package vault

import (
	"context"
	"testing"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/infrastructure/logging"
	"github.com/cardinal-network/identity-vault/internal/crypto"
)

func newTestManager(t *testing.T) (*Manager, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewManager(store, logging.New("vault-test", "error", "text")), store
}

func TestCreateAndUnlockAccount(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.CreateAccount(ctx, "Alice", "pw", "xk", false); err != nil {
		t.Fatalf("create account: %v", err)
	}

	unlocked, err := manager.UnlockAccount(ctx, "Alice", "pw")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	defer unlocked.Close()

	if _, err := manager.UnlockAccount(ctx, "Alice", "bad"); !cerr.IsKind(err, cerr.KindCouldNotAuthenticate) {
		t.Fatalf("expected CouldNotAuthenticate, got %v", err)
	}
	if _, err := manager.UnlockAccount(ctx, "Nobody", "pw"); !cerr.IsKind(err, cerr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCreateAccountDuplicateName(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.CreateAccount(ctx, "Alice", "pw", "xk", false); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if _, err := manager.CreateAccount(ctx, "Alice", "pw2", "xk2", false); !cerr.IsKind(err, cerr.KindDuplicate) {
		t.Fatalf("expected Duplicate, got %v", err)
	}
}

func TestChangePasswordThroughManager(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.CreateAccount(ctx, "Alice", "pw", "xk", false); err != nil {
		t.Fatalf("create account: %v", err)
	}

	unlocked, err := manager.UnlockAccount(ctx, "Alice", "pw")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	signature := unlocked.Sign([]byte("hello"))
	unlocked.Close()

	if err := manager.ChangePassword(ctx, "Alice", "pw", "pw2"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := manager.UnlockAccount(ctx, "Alice", "pw"); !cerr.IsKind(err, cerr.KindCouldNotAuthenticate) {
		t.Fatal("old password still unlocks")
	}

	reUnlocked, err := manager.UnlockAccount(ctx, "Alice", "pw2")
	if err != nil {
		t.Fatalf("unlock with new password: %v", err)
	}
	defer reUnlocked.Close()

	if !reUnlocked.Verify([]byte("hello"), signature) {
		t.Fatal("pre-change signature no longer verifies")
	}
}

// The application-delete cascade: every dependent row goes, the account
// row stays.
func TestDeleteApplicationCascade(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.CreateAccount(ctx, "Alice", "pw", "xk", false); err != nil {
		t.Fatalf("create account: %v", err)
	}
	account, err := manager.UnlockAccount(ctx, "Alice", "pw")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	defer account.Close()

	application, err := manager.CreateApplication(ctx, account, "spout", "test app", "https://spout.example")
	if err != nil {
		t.Fatalf("create application: %v", err)
	}

	for _, code := range []string{"crap", "junk"} {
		if _, err := manager.CreateWriteScope(ctx, account, application, code); err != nil {
			t.Fatalf("create write scope: %v", err)
		}
	}
	for _, code := range []string{"feed", "mail"} {
		scope, err := manager.CreateReadScope(ctx, account, application, code)
		if err != nil {
			t.Fatalf("create read scope: %v", err)
		}
		if _, err := manager.AddReadGrantKey(ctx, account, scope); err != nil {
			t.Fatalf("add grant key: %v", err)
		}
	}

	if _, _, err := manager.CreateClient(ctx, account, application,
		[]string{"crap", "junk"}, []string{"feed", "mail"}); err != nil {
		t.Fatalf("create client: %v", err)
	}

	if err := manager.DeleteApplication(ctx, account, "spout"); err != nil {
		t.Fatalf("delete application: %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.applications) != 0 || len(store.writeScopes) != 0 || len(store.readScopes) != 0 ||
		len(store.readGrantKeys) != 0 || len(store.clients) != 0 ||
		len(store.writeAuths) != 0 || len(store.readAuths) != 0 {
		t.Fatalf("cascade left rows behind: %d apps %d wscopes %d rscopes %d keys %d clients %d wauths %d rauths",
			len(store.applications), len(store.writeScopes), len(store.readScopes),
			len(store.readGrantKeys), len(store.clients), len(store.writeAuths), len(store.readAuths))
	}
	if len(store.accounts) != 1 {
		t.Fatal("account row should survive an application delete")
	}
}

func TestDeleteAccountRemovesEverything(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.CreateAccount(ctx, "Alice", "pw", "xk", false); err != nil {
		t.Fatalf("create account: %v", err)
	}
	account, err := manager.UnlockAccount(ctx, "Alice", "pw")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}

	application, err := manager.CreateApplication(ctx, account, "spout", "test app", "https://spout.example")
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	if _, err := manager.CreateWriteScope(ctx, account, application, "crap"); err != nil {
		t.Fatalf("create write scope: %v", err)
	}
	if _, _, err := manager.CreateClient(ctx, account, application, []string{"crap"}, nil); err != nil {
		t.Fatalf("create client: %v", err)
	}
	account.Close()

	if err := manager.DeleteAccount(ctx, "Alice", "pw"); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.accounts) != 0 || len(store.applications) != 0 || len(store.writeScopes) != 0 ||
		len(store.clients) != 0 || len(store.writeAuths) != 0 {
		t.Fatal("account delete left rows behind")
	}
}

// Tampering with a stored application row must surface as
// FailedVerification on load.
func TestTamperedApplicationRejected(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.CreateAccount(ctx, "Alice", "pw", "xk", false); err != nil {
		t.Fatalf("create account: %v", err)
	}
	account, err := manager.UnlockAccount(ctx, "Alice", "pw")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	defer account.Close()

	if _, err := manager.CreateApplication(ctx, account, "spout", "honest description", "https://spout.example"); err != nil {
		t.Fatalf("create application: %v", err)
	}

	store.mu.Lock()
	for _, application := range store.applications {
		application.Description = "tampered description"
	}
	store.mu.Unlock()

	if _, err := manager.GetApplication(ctx, account, "spout"); !cerr.IsKind(err, cerr.KindFailedVerification) {
		t.Fatalf("expected FailedVerification, got %v", err)
	}
	if _, err := manager.ListApplications(ctx, account); !cerr.IsKind(err, cerr.KindFailedVerification) {
		t.Fatalf("expected FailedVerification from list, got %v", err)
	}
}

// The full capability flow: the client recovers the scope key with nothing
// but its secret and the stored rows.
func TestClientCapabilityFlowThroughManager(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.CreateAccount(ctx, "Alice", "pw", "xk", false); err != nil {
		t.Fatalf("create account: %v", err)
	}
	account, err := manager.UnlockAccount(ctx, "Alice", "pw")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}

	application, err := manager.CreateApplication(ctx, account, "spout", "test app", "https://spout.example")
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	scope, err := manager.CreateWriteScope(ctx, account, application, "crap")
	if err != nil {
		t.Fatalf("create write scope: %v", err)
	}

	secret, client, err := manager.CreateClient(ctx, account, application, []string{"crap"}, nil)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	authorizations, err := manager.store.ListWriteAuthorizationsForScope(ctx, scope.ID)
	if err != nil {
		t.Fatalf("list authorizations: %v", err)
	}
	if len(authorizations) != 1 {
		t.Fatalf("expected one authorization, got %d", len(authorizations))
	}

	// Server-side state is now forgotten.
	account.Close()

	unlockedClient, err := client.ToUnlocked(secret)
	if err != nil {
		t.Fatalf("rehydrate client: %v", err)
	}

	accessKey, err := unlockedClient.UnlockKey(authorizations[0].PublicKey, authorizations[0].EncryptedAccessKey)
	if err != nil {
		t.Fatalf("unlock access key: %v", err)
	}
	seed, err := crypto.Decrypt32(scope.EncryptedPrivateKey, accessKey)
	if err != nil {
		t.Fatalf("open scope envelope: %v", err)
	}
	if crypto.SigningKeyFromSeed(seed).PublicKey() != scope.PublicKey {
		t.Fatal("recovered key does not match the scope")
	}
}

// A second grant key must not invalidate authorizations issued against the
// first.
func TestGrantKeyRotationKeepsOldAuthorizations(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.CreateAccount(ctx, "Alice", "pw", "xk", false); err != nil {
		t.Fatalf("create account: %v", err)
	}
	account, err := manager.UnlockAccount(ctx, "Alice", "pw")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	defer account.Close()

	application, err := manager.CreateApplication(ctx, account, "spout", "test app", "https://spout.example")
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	scope, err := manager.CreateReadScope(ctx, account, application, "feed")
	if err != nil {
		t.Fatalf("create read scope: %v", err)
	}
	firstKey, err := manager.AddReadGrantKey(ctx, account, scope)
	if err != nil {
		t.Fatalf("first grant key: %v", err)
	}

	secret, client, err := manager.CreateClient(ctx, account, application, nil, []string{"feed"})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	// Rotate: issue a second key after the client was authorized.
	if _, err := manager.AddReadGrantKey(ctx, account, scope); err != nil {
		t.Fatalf("second grant key: %v", err)
	}

	authorizations, err := manager.store.ListReadAuthorizationsForGrantKey(ctx, firstKey.ID)
	if err != nil {
		t.Fatalf("list authorizations: %v", err)
	}
	if len(authorizations) != 1 {
		t.Fatalf("expected the original authorization to survive, got %d", len(authorizations))
	}

	unlockedClient, err := client.ToUnlocked(secret)
	if err != nil {
		t.Fatalf("rehydrate client: %v", err)
	}
	if _, err := firstKey.UnlockByClient(unlockedClient, authorizations[0]); err != nil {
		t.Fatalf("old authorization no longer opens the first key: %v", err)
	}
}

func TestRevokeClientDeletesAuthorizations(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.CreateAccount(ctx, "Alice", "pw", "xk", false); err != nil {
		t.Fatalf("create account: %v", err)
	}
	account, err := manager.UnlockAccount(ctx, "Alice", "pw")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	defer account.Close()

	application, err := manager.CreateApplication(ctx, account, "spout", "test app", "https://spout.example")
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	if _, err := manager.CreateWriteScope(ctx, account, application, "crap"); err != nil {
		t.Fatalf("create write scope: %v", err)
	}
	readScope, err := manager.CreateReadScope(ctx, account, application, "feed")
	if err != nil {
		t.Fatalf("create read scope: %v", err)
	}
	if _, err := manager.AddReadGrantKey(ctx, account, readScope); err != nil {
		t.Fatalf("add grant key: %v", err)
	}

	_, client, err := manager.CreateClient(ctx, account, application, []string{"crap"}, []string{"feed"})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	if err := manager.RevokeClient(ctx, account, application, client); err != nil {
		t.Fatalf("revoke client: %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.clients) != 0 || len(store.writeAuths) != 0 || len(store.readAuths) != 0 {
		t.Fatal("revoke left client rows behind")
	}
	// The scopes themselves survive revocation.
	if len(store.writeScopes) != 1 || len(store.readScopes) != 1 || len(store.readGrantKeys) != 1 {
		t.Fatal("revoke must not touch scope rows")
	}
}

// Revoking one scope leaves the client's other authorizations intact.
func TestRevokeSingleScopeAuthorization(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.CreateAccount(ctx, "Alice", "pw", "xk", false); err != nil {
		t.Fatalf("create account: %v", err)
	}
	account, err := manager.UnlockAccount(ctx, "Alice", "pw")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	defer account.Close()

	application, err := manager.CreateApplication(ctx, account, "spout", "test app", "https://spout.example")
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	for _, code := range []string{"crap", "junk"} {
		if _, err := manager.CreateWriteScope(ctx, account, application, code); err != nil {
			t.Fatalf("create write scope: %v", err)
		}
	}

	_, client, err := manager.CreateClient(ctx, account, application, []string{"crap", "junk"}, nil)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	if err := manager.RevokeWriteScope(ctx, account, application, client, "crap"); err != nil {
		t.Fatalf("revoke write scope: %v", err)
	}

	store.mu.Lock()
	remaining := len(store.writeAuths)
	store.mu.Unlock()
	if remaining != 1 {
		t.Fatalf("expected exactly the other authorization to survive, got %d", remaining)
	}
	if len(store.clients) != 1 {
		t.Fatal("targeted revoke must not delete the client")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.CreateAccount(ctx, "Alice", "pw", "xk", false); err != nil {
		t.Fatalf("create account: %v", err)
	}
	account, err := manager.UnlockAccount(ctx, "Alice", "pw")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	defer account.Close()

	if _, err := manager.CreateApplication(ctx, account, "spout", "test app", "https://spout.example"); err != nil {
		t.Fatalf("create application: %v", err)
	}

	if _, err := manager.ExportAccount(ctx, account, "wrong", "phrase"); !cerr.IsKind(err, cerr.KindCouldNotAuthenticate) {
		t.Fatalf("expected CouldNotAuthenticate on export-key mismatch, got %v", err)
	}

	portable, err := manager.ExportAccount(ctx, account, "xk", "phrase")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(portable.Applications) != 1 || portable.Applications[0].Code != "spout" {
		t.Fatalf("export missing applications: %+v", portable.Applications)
	}

	imported, err := manager.ImportAccount(ctx, "Alice2", "newpw", "newxk", "phrase", portable)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported.PublicKey != account.PublicKey {
		t.Fatal("imported account changed public key")
	}

	importedUnlocked, err := manager.UnlockAccount(ctx, "Alice2", "newpw")
	if err != nil {
		t.Fatalf("unlock imported: %v", err)
	}
	defer importedUnlocked.Close()

	applications, err := manager.ListApplications(ctx, importedUnlocked)
	if err != nil {
		t.Fatalf("list imported applications: %v", err)
	}
	if len(applications) != 1 || applications[0].Code != "spout" {
		t.Fatalf("imported applications wrong: %+v", applications)
	}

	var zero [crypto.KeySize]byte
	if imported.MasterKeySalt == zero {
		t.Fatal("imported account has no fresh master key salt")
	}
}

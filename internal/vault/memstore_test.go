package vault

import (
	"context"
	"sync"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/internal/crypto"
	"github.com/cardinal-network/identity-vault/internal/model"
	"github.com/cardinal-network/identity-vault/internal/storage"
)

// memStore is an in-memory storage.Store for exercising the manager without
// a database. Transactions are not isolated; the manager's cascades are
// tested for completeness, not atomicity.
type memStore struct {
	mu sync.Mutex

	accounts      map[string]*model.Account
	applications  map[string]*model.Application
	writeScopes   map[string]*model.WriteScope
	readScopes    map[string]*model.ReadScope
	readGrantKeys map[string]*model.ReadGrantKey
	clients       map[string]*model.Client
	writeAuths    map[string]*model.WriteAuthorization
	readAuths     map[string]*model.ReadAuthorization
}

func newMemStore() *memStore {
	return &memStore{
		accounts:      map[string]*model.Account{},
		applications:  map[string]*model.Application{},
		writeScopes:   map[string]*model.WriteScope{},
		readScopes:    map[string]*model.ReadScope{},
		readGrantKeys: map[string]*model.ReadGrantKey{},
		clients:       map[string]*model.Client{},
		writeAuths:    map[string]*model.WriteAuthorization{},
		readAuths:     map[string]*model.ReadAuthorization{},
	}
}

var _ storage.Store = (*memStore)(nil)

func (s *memStore) WithTx(_ context.Context, fn func(storage.Store) error) error {
	return fn(s)
}

// --- accounts ---

func (s *memStore) CreateAccount(_ context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Name == account.Name {
			return cerr.Duplicate("account")
		}
	}
	copied := *account
	s.accounts[account.ID] = &copied
	return nil
}

func (s *memStore) GetAccountByName(_ context.Context, name string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Name == name {
			copied := *account
			return &copied, nil
		}
	}
	return nil, cerr.NotFound("account")
}

func (s *memStore) ListAccounts(_ context.Context) ([]*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*model.Account
	for _, account := range s.accounts {
		copied := *account
		result = append(result, &copied)
	}
	return result, nil
}

func (s *memStore) UpdateAccount(_ context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.ID]; !ok {
		return cerr.NotFound("account")
	}
	copied := *account
	s.accounts[account.ID] = &copied
	return nil
}

func (s *memStore) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return cerr.NotFound("account")
	}
	delete(s.accounts, id)
	return nil
}

// --- applications ---

func (s *memStore) CreateApplication(_ context.Context, application *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.applications {
		if existing.AccountID == application.AccountID && existing.Code == application.Code {
			return cerr.Duplicate("application")
		}
	}
	copied := *application
	s.applications[application.ID] = &copied
	return nil
}

func (s *memStore) GetApplicationByCode(_ context.Context, accountID, code string) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, application := range s.applications {
		if application.AccountID == accountID && application.Code == code {
			copied := *application
			return &copied, nil
		}
	}
	return nil, cerr.NotFound("application")
}

func (s *memStore) ListApplications(_ context.Context, accountID string) ([]*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*model.Application
	for _, application := range s.applications {
		if accountID == "" || application.AccountID == accountID {
			copied := *application
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) DeleteApplication(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[id]; !ok {
		return cerr.NotFound("application")
	}
	delete(s.applications, id)
	return nil
}

// --- scopes ---

func (s *memStore) CreateWriteScope(_ context.Context, scope *model.WriteScope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.writeScopes {
		if existing.ApplicationID == scope.ApplicationID && existing.Code == scope.Code {
			return cerr.Duplicate("write scope")
		}
	}
	copied := *scope
	s.writeScopes[scope.ID] = &copied
	return nil
}

func (s *memStore) GetWriteScopeByCode(_ context.Context, applicationID, code string) (*model.WriteScope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, scope := range s.writeScopes {
		if scope.ApplicationID == applicationID && scope.Code == code {
			copied := *scope
			return &copied, nil
		}
	}
	return nil, cerr.NotFound("write scope")
}

func (s *memStore) ListWriteScopes(_ context.Context, applicationID string) ([]*model.WriteScope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*model.WriteScope
	for _, scope := range s.writeScopes {
		if scope.ApplicationID == applicationID {
			copied := *scope
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) DeleteWriteScope(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.writeScopes[id]; !ok {
		return cerr.NotFound("write scope")
	}
	delete(s.writeScopes, id)
	return nil
}

func (s *memStore) CreateReadScope(_ context.Context, scope *model.ReadScope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.readScopes {
		if existing.ApplicationID == scope.ApplicationID && existing.Code == scope.Code {
			return cerr.Duplicate("read scope")
		}
	}
	copied := *scope
	s.readScopes[scope.ID] = &copied
	return nil
}

func (s *memStore) GetReadScopeByCode(_ context.Context, applicationID, code string) (*model.ReadScope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, scope := range s.readScopes {
		if scope.ApplicationID == applicationID && scope.Code == code {
			copied := *scope
			return &copied, nil
		}
	}
	return nil, cerr.NotFound("read scope")
}

func (s *memStore) ListReadScopes(_ context.Context, applicationID string) ([]*model.ReadScope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*model.ReadScope
	for _, scope := range s.readScopes {
		if scope.ApplicationID == applicationID {
			copied := *scope
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) DeleteReadScope(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.readScopes[id]; !ok {
		return cerr.NotFound("read scope")
	}
	delete(s.readScopes, id)
	return nil
}

func (s *memStore) CreateReadGrantKey(_ context.Context, key *model.ReadGrantKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *key
	s.readGrantKeys[key.ID] = &copied
	return nil
}

func (s *memStore) ListReadGrantKeys(_ context.Context, readScopeID string) ([]*model.ReadGrantKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*model.ReadGrantKey
	for _, key := range s.readGrantKeys {
		if key.ReadScopeID == readScopeID {
			copied := *key
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) DeleteReadGrantKey(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.readGrantKeys[id]; !ok {
		return cerr.NotFound("read grant key")
	}
	delete(s.readGrantKeys, id)
	return nil
}

// --- clients ---

func (s *memStore) CreateClient(_ context.Context, client *model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *client
	s.clients[client.ID] = &copied
	return nil
}

func (s *memStore) GetClientByPublicKey(_ context.Context, applicationID string, clientID [crypto.KeySize]byte) (*model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, client := range s.clients {
		if client.ApplicationID == applicationID && client.ClientID == clientID {
			copied := *client
			return &copied, nil
		}
	}
	return nil, cerr.NotFound("client")
}

func (s *memStore) ListClients(_ context.Context, applicationID string) ([]*model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*model.Client
	for _, client := range s.clients {
		if client.ApplicationID == applicationID {
			copied := *client
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return cerr.NotFound("client")
	}
	delete(s.clients, id)
	return nil
}

// --- authorizations ---

func (s *memStore) CreateWriteAuthorization(_ context.Context, authorization *model.WriteAuthorization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *authorization
	s.writeAuths[authorization.ID] = &copied
	return nil
}

func (s *memStore) ListWriteAuthorizationsForScope(_ context.Context, writeScopeID string) ([]*model.WriteAuthorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*model.WriteAuthorization
	for _, authorization := range s.writeAuths {
		if authorization.WriteScopeID == writeScopeID {
			copied := *authorization
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) DeleteWriteAuthorization(_ context.Context, writeScopeID string, clientID [crypto.KeySize]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, authorization := range s.writeAuths {
		if authorization.WriteScopeID == writeScopeID && authorization.ClientID == clientID {
			delete(s.writeAuths, id)
			return nil
		}
	}
	return cerr.NotFound("write authorization")
}

func (s *memStore) DeleteWriteAuthorizationsForScope(_ context.Context, writeScopeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, authorization := range s.writeAuths {
		if authorization.WriteScopeID == writeScopeID {
			delete(s.writeAuths, id)
		}
	}
	return nil
}

func (s *memStore) DeleteWriteAuthorizationsForClient(_ context.Context, clientID [crypto.KeySize]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, authorization := range s.writeAuths {
		if authorization.ClientID == clientID {
			delete(s.writeAuths, id)
		}
	}
	return nil
}

func (s *memStore) CreateReadAuthorization(_ context.Context, authorization *model.ReadAuthorization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *authorization
	s.readAuths[authorization.ID] = &copied
	return nil
}

func (s *memStore) ListReadAuthorizationsForGrantKey(_ context.Context, readGrantKeyID string) ([]*model.ReadAuthorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*model.ReadAuthorization
	for _, authorization := range s.readAuths {
		if authorization.ReadGrantKeyID == readGrantKeyID {
			copied := *authorization
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) DeleteReadAuthorization(_ context.Context, readGrantKeyID string, clientID [crypto.KeySize]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, authorization := range s.readAuths {
		if authorization.ReadGrantKeyID == readGrantKeyID && authorization.ClientID == clientID {
			delete(s.readAuths, id)
			return nil
		}
	}
	return cerr.NotFound("read authorization")
}

func (s *memStore) DeleteReadAuthorizationsForGrantKey(_ context.Context, readGrantKeyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, authorization := range s.readAuths {
		if authorization.ReadGrantKeyID == readGrantKeyID {
			delete(s.readAuths, id)
		}
	}
	return nil
}

func (s *memStore) DeleteReadAuthorizationsForClient(_ context.Context, clientID [crypto.KeySize]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, authorization := range s.readAuths {
		if authorization.ClientID == clientID {
			delete(s.readAuths, id)
		}
	}
	return nil
}

package model

import (
	"github.com/google/uuid"

	"github.com/cardinal-network/identity-vault/internal/crypto"
)

// Application is a named capability namespace owned by an account. A pure
// signed record: the owning account signs (code, description, server_url).
type Application struct {
	ID          string
	AccountID   string
	Code        string
	Description string
	ServerURL   string
	Sig         []byte
}

// PortableApplication is the exchange form of an application record.
type PortableApplication struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	ServerURL   string `json:"server_url"`
}

// NewApplication creates and signs an application under the given account.
func NewApplication(code, description, serverURL string, account *UnlockedAccount) *Application {
	application := &Application{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		Code:        code,
		Description: description,
		ServerURL:   serverURL,
	}

	application.Sig = account.SignRecord(application)
	return application
}

// ApplicationFromPortable re-signs an imported application under its new
// owning account.
func ApplicationFromPortable(portable PortableApplication, account *UnlockedAccount) *Application {
	return NewApplication(portable.Code, portable.Description, portable.ServerURL, account)
}

// RecordHash implements Signable.
func (a *Application) RecordHash() [crypto.KeySize]byte {
	return crypto.HashByParts(
		[]byte(a.Code),
		[]byte(a.Description),
		[]byte(a.ServerURL),
	)
}

// Signature implements Signed.
func (a *Application) Signature() []byte {
	return a.Sig
}

// ToPortable strips the application down to its exchange form.
func (a *Application) ToPortable() PortableApplication {
	return PortableApplication{
		Code:        a.Code,
		Description: a.Description,
		ServerURL:   a.ServerURL,
	}
}

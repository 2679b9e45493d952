package main

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/cardinal-network/identity-vault/infrastructure/logging"
	"github.com/cardinal-network/identity-vault/internal/config"
	"github.com/cardinal-network/identity-vault/internal/crypto"
	"github.com/cardinal-network/identity-vault/internal/platform/database"
	"github.com/cardinal-network/identity-vault/internal/platform/migrations"
	"github.com/cardinal-network/identity-vault/internal/storage/postgres"
	"github.com/cardinal-network/identity-vault/internal/vault"
)

// cmdInit configures the database URL, applies the schema and creates the
// bootstrap admin account.
func cmdInit(ctx context.Context) error {
	fmt.Println(`Enter the postgres database url. The format should be "postgres://<username>:<password>@<host>/<database>"`)

	var databaseURL string
	for {
		databaseURL = getInput("DATABASE_URL: ")
		if database.CanConnect(ctx, databaseURL) {
			break
		}
		fmt.Printf("Cannot connect with url %s.\n", databaseURL)
	}

	if err := config.SetEnvVariable("DATABASE_URL", databaseURL); err != nil {
		return err
	}

	serverSecret, err := crypto.RandomKey()
	if err != nil {
		return err
	}
	if err := config.SetEnvVariable("SERVER_SECRET", base64.StdEncoding.EncodeToString(serverSecret[:])); err != nil {
		return err
	}

	db, err := database.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Apply(db.DB); err != nil {
		return err
	}

	adminName := getInput("Administrator User Name: ")
	password := getNewPassword("Administrator User Password: ", "Reenter Admin User Password: ")

	exportKeyRaw, err := crypto.RandomKey()
	if err != nil {
		return err
	}
	exportKey := base64.StdEncoding.EncodeToString(exportKeyRaw[:])

	manager := vault.NewManager(postgres.New(db), logging.NewFromEnv("cardinal"))
	if _, err := manager.CreateAccount(ctx, adminName, password, exportKey, true); err != nil {
		return err
	}

	fmt.Printf("Administrator account %q created.\n", adminName)
	fmt.Printf("Export key (store this somewhere safe): %s\n", exportKey)
	return nil
}

// Package main provides the cardinal CLI for the identity vault.
//
// Usage:
//
//	cardinal init                                  - Configure the database and create the admin account
//	cardinal account {add|list|chngpwd|delete}     - Account administration
//	cardinal application {add|list|delete|scope}   - Application and scope administration
//	cardinal client {add|list|revoke}              - Client authorization management
//	cardinal export                                - Export an account key file
//	cardinal import                                - Import an account key file
//	cardinal sign                                  - Sign a file with an account key
//	cardinal server                                - Run the admin/API server
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/cardinal-network/identity-vault/infrastructure/logging"
	"github.com/cardinal-network/identity-vault/internal/config"
	"github.com/cardinal-network/identity-vault/internal/platform/database"
	"github.com/cardinal-network/identity-vault/internal/storage/postgres"
	"github.com/cardinal-network/identity-vault/internal/vault"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "init":
		err = cmdInit(ctx)
	case "account":
		err = cmdAccount(ctx, args)
	case "application":
		err = cmdApplication(ctx, args)
	case "client":
		err = cmdClient(ctx, args)
	case "export":
		err = cmdExport(ctx, args)
	case "import":
		err = cmdImport(ctx, args)
	case "sign":
		err = cmdSign(ctx, args)
	case "server":
		err = cmdServer(ctx)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `cardinal - identity vault and capability delegation

Commands:
  init                                  Configure the database and create the admin account
  account {add|list|chngpwd|delete}     Account administration
  application {add|list|delete|scope}   Application and scope administration
  client {add|list|revoke}              Client authorization management
  export                                Export an account key file
  import                                Import an account key file
  sign                                  Sign a file with an account key
  server                                Run the admin/API server`)
}

// openVault loads configuration and connects the manager to the store.
func openVault(ctx context.Context) (*vault.Manager, *sqlx.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}

	log := logging.New("cardinal", cfg.LogLevel, cfg.LogFormat)
	manager := vault.NewManager(postgres.New(db), log)
	return manager, db, cfg, nil
}

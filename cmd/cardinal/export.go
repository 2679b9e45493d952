package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cardinal-network/identity-vault/internal/model"
)

// cmdExport writes an account's portable key file.
func cmdExport(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("export", flag.ExitOnError)
	username := flags.String("username", "", "The account name to export.")
	password := flags.String("password", "", "The account's password.")
	exportKey := flags.String("exportkey", "", "Required to release the export.")
	passphrase := flags.String("passphrase", "", "Used to encrypt the key file.")
	output := flags.String("output", "", "The output file to create.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	manager, db, _, err := openVault(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	name := orPrompt(*username, "Account name: ")
	account, err := manager.UnlockAccount(ctx, name,
		orPromptPassword(*password, fmt.Sprintf("Enter password for %s: ", name)))
	if err != nil {
		return err
	}
	defer account.Close()

	portable, err := manager.ExportAccount(ctx, account,
		orPromptPassword(*exportKey, fmt.Sprintf("Enter export key for %s: ", name)),
		orPromptPassword(*passphrase, "Key file passphrase: "))
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(portable, "", "  ")
	if err != nil {
		return err
	}

	if *output == "" {
		fmt.Println(string(encoded))
		return nil
	}

	if err := os.WriteFile(*output, append(encoded, '\n'), 0o600); err != nil {
		return err
	}
	fmt.Printf("Exported %q to %s.\n", name, *output)
	return nil
}

// cmdImport reads a portable key file into a new account.
func cmdImport(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("import", flag.ExitOnError)
	username := flags.String("username", "", "The account name to import as.")
	password := flags.String("password", "", "The account's new password.")
	exportKey := flags.String("exportkey", "", "The new account's export key.")
	passphrase := flags.String("passphrase", "", "Used to decrypt the key file.")
	file := flags.String("file", "", "The key file to import.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	manager, db, _, err := openVault(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	path := orPrompt(*file, "Key file: ")
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var portable model.PortableAccount
	if err := json.Unmarshal(raw, &portable); err != nil {
		return fmt.Errorf("parse key file: %w", err)
	}

	name := orPrompt(*username, "New account name: ")
	pass := *password
	if pass == "" {
		pass = getNewPassword(fmt.Sprintf("Enter new password for %s: ", name), "Reenter password: ")
	}

	if _, err := manager.ImportAccount(ctx, name, pass,
		orPromptPassword(*exportKey, "New export key: "),
		orPromptPassword(*passphrase, "Key file passphrase: "),
		&portable); err != nil {
		return err
	}

	fmt.Printf("Account %q imported successfully.\n", name)
	return nil
}

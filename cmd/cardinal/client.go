package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"

	"github.com/cardinal-network/identity-vault/internal/crypto"
)

func cmdClient(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cardinal client {add|list|revoke}")
	}

	switch args[0] {
	case "add":
		return clientAdd(ctx, args[1:])
	case "list":
		return clientList(ctx, args[1:])
	case "revoke":
		return clientRevoke(ctx, args[1:])
	default:
		return fmt.Errorf("unknown client subcommand %q", args[0])
	}
}

func clientAdd(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("client add", flag.ExitOnError)
	username := flags.String("username", "", "The owning account name.")
	password := flags.String("password", "", "The account's password.")
	application := flags.String("application", "", "The application code.")
	writeScopes := flags.String("write", "", "Comma-separated write scope codes to authorize.")
	readScopes := flags.String("read", "", "Comma-separated read scope codes to authorize.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	manager, db, _, err := openVault(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	account, err := manager.UnlockAccount(ctx,
		orPrompt(*username, "Account name: "),
		orPromptPassword(*password, "Password: "))
	if err != nil {
		return err
	}
	defer account.Close()

	app, err := manager.GetApplication(ctx, account, orPrompt(*application, "Application code: "))
	if err != nil {
		return err
	}

	secret, client, err := manager.CreateClient(ctx, account, app,
		splitCodes(*writeScopes), splitCodes(*readScopes))
	if err != nil {
		return err
	}

	fmt.Printf("Client created under application %q.\n", app.Code)
	fmt.Printf("client_id: %s\n", base64.StdEncoding.EncodeToString(client.ClientID[:]))
	fmt.Printf("secret:    %s\n", base64.StdEncoding.EncodeToString(secret[:]))
	fmt.Println("The secret is not stored; this is the only time it will be shown.")
	return nil
}

func clientList(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("client list", flag.ExitOnError)
	username := flags.String("username", "", "The owning account name.")
	password := flags.String("password", "", "The account's password.")
	application := flags.String("application", "", "The application code.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	manager, db, _, err := openVault(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	account, err := manager.UnlockAccount(ctx,
		orPrompt(*username, "Account name: "),
		orPromptPassword(*password, "Password: "))
	if err != nil {
		return err
	}
	defer account.Close()

	app, err := manager.GetApplication(ctx, account, orPrompt(*application, "Application code: "))
	if err != nil {
		return err
	}

	clients, err := manager.ListClients(ctx, account, app)
	if err != nil {
		return err
	}

	for _, client := range clients {
		fmt.Println(base64.StdEncoding.EncodeToString(client.ClientID[:]))
	}
	return nil
}

func clientRevoke(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("client revoke", flag.ExitOnError)
	username := flags.String("username", "", "The owning account name.")
	password := flags.String("password", "", "The account's password.")
	application := flags.String("application", "", "The application code.")
	clientID := flags.String("client", "", "The client id (base64).")
	force := flags.Bool("force", false, "Revoke without confirmation")
	if err := flags.Parse(args); err != nil {
		return err
	}

	manager, db, _, err := openVault(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	account, err := manager.UnlockAccount(ctx,
		orPrompt(*username, "Account name: "),
		orPromptPassword(*password, "Password: "))
	if err != nil {
		return err
	}
	defer account.Close()

	app, err := manager.GetApplication(ctx, account, orPrompt(*application, "Application code: "))
	if err != nil {
		return err
	}

	encoded := orPrompt(*clientID, "Client id: ")
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) != crypto.KeySize {
		return fmt.Errorf("client id must be %d base64-encoded bytes", crypto.KeySize)
	}

	client, err := manager.GetClient(ctx, account, app, crypto.To32(raw))
	if err != nil {
		return err
	}

	if !confirm(*force, fmt.Sprintf("Revoke client %s?", encoded)) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := manager.RevokeClient(ctx, account, app, client); err != nil {
		return err
	}

	fmt.Println("Client revoked.")
	return nil
}

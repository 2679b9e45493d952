package main

import (
	"context"
	"flag"
	"fmt"
)

func cmdAccount(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cardinal account {add|list|chngpwd|delete}")
	}

	switch args[0] {
	case "add":
		return accountAdd(ctx, args[1:])
	case "list":
		return accountList(ctx)
	case "chngpwd":
		return accountChangePassword(ctx, args[1:])
	case "delete":
		return accountDelete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown account subcommand %q", args[0])
	}
}

func accountAdd(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("account add", flag.ExitOnError)
	username := flags.String("username", "", "The account name for which to create a new account.")
	password := flags.String("password", "", "The password used to encrypt this account's keys.")
	exportKey := flags.String("exportkey", "", "Required to release an encrypted export of the account's keys.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	manager, db, _, err := openVault(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	name := orPrompt(*username, "New account name: ")
	pass := *password
	if pass == "" {
		pass = getNewPassword("New account password: ", "Reenter password: ")
	}
	export := orPromptPassword(*exportKey, "Export key: ")

	if _, err := manager.CreateAccount(ctx, name, pass, export, false); err != nil {
		return err
	}

	fmt.Printf("Account %q created successfully.\n", name)
	return nil
}

func accountList(ctx context.Context) error {
	manager, db, _, err := openVault(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	accounts, err := manager.ListAccounts(ctx)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		if account.IsAdmin {
			fmt.Printf("%s (admin)\n", account.Name)
		} else {
			fmt.Println(account.Name)
		}
	}
	return nil
}

func accountChangePassword(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("account chngpwd", flag.ExitOnError)
	username := flags.String("username", "", "The account name for which to change the password.")
	password := flags.String("password", "", "The account's current password.")
	newPassword := flags.String("newpassword", "", "The replacement password.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	manager, db, _, err := openVault(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	name := orPrompt(*username, "Account name: ")
	current := orPromptPassword(*password, "Current password: ")
	replacement := *newPassword
	if replacement == "" {
		replacement = getNewPassword("New password: ", "Reenter new password: ")
	}

	if err := manager.ChangePassword(ctx, name, current, replacement); err != nil {
		return err
	}

	fmt.Printf("Password changed for %q.\n", name)
	return nil
}

func accountDelete(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("account delete", flag.ExitOnError)
	username := flags.String("username", "", "The account name to delete.")
	password := flags.String("password", "", "The account's current password.")
	force := flags.Bool("force", false, "Delete without confirmation")
	if err := flags.Parse(args); err != nil {
		return err
	}

	manager, db, _, err := openVault(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	name := orPrompt(*username, "Account name: ")
	pass := orPromptPassword(*password, "Password: ")

	if !confirm(*force, fmt.Sprintf("Delete account %q and everything it owns?", name)) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := manager.DeleteAccount(ctx, name, pass); err != nil {
		return err
	}

	fmt.Printf("Account %q deleted.\n", name)
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
)

func cmdApplication(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cardinal application {add|list|delete|scope}")
	}

	switch args[0] {
	case "add":
		return applicationAdd(ctx, args[1:])
	case "list":
		return applicationList(ctx, args[1:])
	case "delete":
		return applicationDelete(ctx, args[1:])
	case "scope":
		return applicationScope(ctx, args[1:])
	default:
		return fmt.Errorf("unknown application subcommand %q", args[0])
	}
}

func applicationAdd(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("application add", flag.ExitOnError)
	username := flags.String("username", "", "The owning account name.")
	password := flags.String("password", "", "The account's password.")
	code := flags.String("code", "", "A unique identifier for the application.")
	description := flags.String("description", "", "What this application is.")
	serverURL := flags.String("url", "", "The application's server url.")
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

	appCode := orPrompt(*code, "Application code: ")

	if _, err := manager.CreateApplication(ctx, account, appCode, *description, *serverURL); err != nil {
		return err
	}

	fmt.Printf("Application %q created successfully.\n", appCode)
	return nil
}

func applicationList(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("application list", flag.ExitOnError)
	username := flags.String("username", "", "The owning account name.")
	password := flags.String("password", "", "The account's password.")
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

	applications, err := manager.ListApplications(ctx, account)
	if err != nil {
		return err
	}

	for _, application := range applications {
		fmt.Printf("%s\t%s\t%s\n", application.Code, application.ServerURL, application.Description)
	}
	return nil
}

func applicationDelete(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("application delete", flag.ExitOnError)
	username := flags.String("username", "", "The owning account name.")
	password := flags.String("password", "", "The account's password.")
	code := flags.String("code", "", "The application to delete.")
	force := flags.Bool("force", false, "Delete without confirmation")
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

	appCode := orPrompt(*code, "Application code: ")

	if !confirm(*force, fmt.Sprintf("Delete application %q and all of its scopes, clients and authorizations?", appCode)) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := manager.DeleteApplication(ctx, account, appCode); err != nil {
		return err
	}

	fmt.Printf("Application %q deleted.\n", appCode)
	return nil
}

// applicationScope creates, deletes and extends grant scopes under an
// application.
func applicationScope(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("application scope", flag.ExitOnError)
	username := flags.String("username", "", "The owning account name.")
	password := flags.String("password", "", "The account's password.")
	application := flags.String("application", "", "The application code.")
	writeCodes := flags.String("write", "", "Comma-separated write scope codes.")
	readCodes := flags.String("read", "", "Comma-separated read scope codes.")
	remove := flags.Bool("delete", false, "Delete the listed scopes instead of creating them.")
	grantKey := flags.Bool("grantkey", false, "Issue a new grant key for the listed read scopes.")
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

	writes := splitCodes(*writeCodes)
	reads := splitCodes(*readCodes)

	if *remove {
		for _, code := range writes {
			if err := manager.DeleteWriteScope(ctx, account, app, code); err != nil {
				return err
			}
			fmt.Printf("Write scope %q deleted.\n", code)
		}
		for _, code := range reads {
			if err := manager.DeleteReadScope(ctx, account, app, code); err != nil {
				return err
			}
			fmt.Printf("Read scope %q deleted.\n", code)
		}
		return nil
	}

	if *grantKey {
		for _, code := range reads {
			scope, err := manager.GetReadScope(ctx, account, app, code)
			if err != nil {
				return err
			}
			if _, err := manager.AddReadGrantKey(ctx, account, scope); err != nil {
				return err
			}
			fmt.Printf("Grant key issued for read scope %q.\n", code)
		}
		return nil
	}

	for _, code := range writes {
		if _, err := manager.CreateWriteScope(ctx, account, app, code); err != nil {
			return err
		}
		fmt.Printf("Write scope %q created successfully.\n", code)
	}
	for _, code := range reads {
		if _, err := manager.CreateReadScope(ctx, account, app, code); err != nil {
			return err
		}
		fmt.Printf("Read scope %q created successfully.\n", code)
	}
	return nil
}

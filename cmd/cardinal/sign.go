package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
)

// cmdSign signs the bytes of a file with an account's key and emits the
// base64 signature.
func cmdSign(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("sign", flag.ExitOnError)
	username := flags.String("username", "", "The signing account name.")
	password := flags.String("password", "", "The account's password.")
	file := flags.String("file", "", "Input data file.")
	output := flags.String("output", "", "Write the signature to a file instead of stdout.")
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

	path := orPrompt(*file, "Input file: ")
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	signature := base64.StdEncoding.EncodeToString(account.Sign(data))

	if *output == "" {
		fmt.Println(signature)
		return nil
	}
	if err := os.WriteFile(*output, []byte(signature+"\n"), 0o644); err != nil {
		return err
	}
	fmt.Printf("Signature written to %s.\n", *output)
	return nil
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// getInput prompts on stdout and reads one trimmed line from stdin.
func getInput(message string) string {
	fmt.Print(message)

	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// getPassword reads a password without echoing. Falls back to a plain read
// when stdin is not a terminal (tests, pipes).
func getPassword(message string) string {
	fmt.Print(message)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		return strings.TrimRight(line, "\r\n")
	}

	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(raw)
}

// getNewPassword prompts twice until both entries match.
func getNewPassword(message, reenterMessage string) string {
	for {
		first := getPassword(message)
		second := getPassword(reenterMessage)
		if first == second {
			return first
		}
		fmt.Println("Passwords do not match!")
	}
}

// orPrompt returns the flag value, prompting when it was omitted.
func orPrompt(value, message string) string {
	if value != "" {
		return value
	}
	return getInput(message)
}

// orPromptPassword is orPrompt with a no-echo prompt.
func orPromptPassword(value, message string) string {
	if value != "" {
		return value
	}
	return getPassword(message)
}

// confirm asks for a yes/no unless force is set.
func confirm(force bool, message string) bool {
	if force {
		return true
	}
	answer := strings.ToLower(getInput(message + " [y/N]: "))
	return answer == "y" || answer == "yes"
}

// splitCodes turns a comma-separated flag value into trimmed codes.
func splitCodes(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var codes []string
	for _, code := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(code); trimmed != "" {
			codes = append(codes, trimmed)
		}
	}
	return codes
}

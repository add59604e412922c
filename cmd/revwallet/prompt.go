package main

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// promptPassword reads the account password, masked. Non-interactive
// callers (scripts, CI) set REVWALLET_PASSWORD instead.
func promptPassword(label string) (string, error) {
	if pw := os.Getenv("REVWALLET_PASSWORD"); pw != "" {
		return pw, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("stdin is not a terminal; set REVWALLET_PASSWORD for non-interactive use")
	}

	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}
	return prompt.Run()
}

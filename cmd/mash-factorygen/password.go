package main

import (
	"fmt"

	"github.com/chzyer/readline"
)

// readPassword is replaced in tests.
var readPassword = promptPassword

// promptPassword reads a line from the terminal without echoing it.
func promptPassword(prompt string) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return "", fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	pw, err := rl.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

package app

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"shelf-go/internal/encryption"
)

// PassphraseSource returns a PassphraseFunc that reads the passphrase from
// the environment variable envVar, falling back to an interactive prompt on
// in when it is a terminal.
func PassphraseSource(envVar string, in *os.File, prompt io.Writer) encryption.PassphraseFunc {
	return func() (string, error) {
		if envVar != "" {
			if p := os.Getenv(envVar); p != "" {
				return p, nil
			}
		}
		return readPassphrase(in, prompt, "Passphrase: ")
	}
}

// ReadNewPassphrase prompts twice for a new passphrase and requires both
// entries to match.
func ReadNewPassphrase(in *os.File, prompt io.Writer) (string, error) {
	first, err := readPassphrase(in, prompt, "New passphrase: ")
	if err != nil {
		return "", err
	}
	second, err := readPassphrase(in, prompt, "Confirm passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("passphrases do not match")
	}
	if first == "" {
		return "", fmt.Errorf("passphrase must not be empty")
	}
	return first, nil
}

func readPassphrase(in *os.File, prompt io.Writer, label string) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no passphrase in environment and stdin is not a terminal")
	}

	fmt.Fprint(prompt, label)
	p, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(p), nil
}

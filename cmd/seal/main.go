// Package main provides a CLI tool for sealing and unsealing the dataset
// directory. Sealed directories keep the CSV snapshots Age-encrypted at rest;
// the server unlocks them at startup with SHOPDASH_PASSWORD.
package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"shopdash/internal/config"
	"shopdash/internal/services/storage"
)

func main() {
	unseal := flag.Bool("unseal", false, "Decrypt the dataset directory instead of sealing it")
	dir := flag.String("dir", "", "Dataset directory (default: SHOPDASH_DATA_DIR or ./data)")
	flag.Parse()

	dataDir := *dir
	if dataDir == "" {
		dataDir = config.Load().DataDirectory
	}

	store, err := storage.New(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *unseal && !store.IsSealed() {
		fmt.Fprintf(os.Stderr, "Error: %s is not sealed\n", dataDir)
		os.Exit(1)
	}
	if !*unseal && store.IsSealed() {
		fmt.Fprintf(os.Stderr, "Error: %s is already sealed\n", dataDir)
		os.Exit(1)
	}

	password, err := readPassphrase(*unseal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *unseal {
		if err := store.Unseal(password); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Unsealed %s\n", dataDir)
		return
	}

	if err := store.Seal(password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sealed %s\n", dataDir)
}

// readPassphrase prompts without echo; sealing asks twice to catch typos
func readPassphrase(unseal bool) (string, error) {
	fmt.Print("Passphrase: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}

	if unseal {
		return string(first), nil
	}

	fmt.Print("Confirm passphrase: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passphrases do not match")
	}
	return string(first), nil
}

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
)

// Seal encrypts all dataset files in place with the given passphrase.
// The source CSVs are never modified logically, only wrapped in Age.
func (s *Storage) Seal(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return fmt.Errorf("dataset directory is already sealed")
	}

	if len(password) < 8 {
		return fmt.Errorf("passphrase must be at least 8 characters")
	}

	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return fmt.Errorf("failed to create recipient: %w", err)
	}

	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	// Create verification file first
	verifyPath := filepath.Join(s.baseDir, verifyFile)
	encrypted, err := encryptData([]byte(verifyMagic), recipient)
	if err != nil {
		return fmt.Errorf("failed to encrypt verification file: %w", err)
	}
	if err := os.WriteFile(verifyPath, encrypted, 0644); err != nil {
		return fmt.Errorf("failed to write verification file: %w", err)
	}

	// Collect dataset files to seal
	var filesToSeal []string
	err = filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		if s.shouldSkipSealing(path) {
			return nil
		}

		// Only the tabular dataset files get sealed
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".csv" || ext == ".json" {
			filesToSeal = append(filesToSeal, path)
		}

		return nil
	})
	if err != nil {
		os.Remove(verifyPath)
		return fmt.Errorf("failed to scan files: %w", err)
	}

	for _, path := range filesToSeal {
		if err := s.encryptFile(path, recipient); err != nil {
			// Attempt to rollback sealed files (best effort)
			s.rollbackSeal(filesToSeal, identity)
			os.Remove(verifyPath)
			return fmt.Errorf("failed to seal %s: %w", filepath.Base(path), err)
		}
	}

	markerPath := filepath.Join(s.baseDir, markerFile)
	if err := os.WriteFile(markerPath, []byte("sealed"), 0644); err != nil {
		return fmt.Errorf("failed to create marker file: %w", err)
	}

	s.sealed = true
	s.identity = identity
	s.recipient = recipient

	return nil
}

// Unseal decrypts all dataset files in place (requires current passphrase)
func (s *Storage) Unseal(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sealed {
		return fmt.Errorf("dataset directory is not sealed")
	}

	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	verifyPath := filepath.Join(s.baseDir, verifyFile)
	encrypted, err := os.ReadFile(verifyPath)
	if err != nil {
		return fmt.Errorf("failed to read verification file: %w", err)
	}

	decrypted, err := decryptData(encrypted, identity)
	if err != nil {
		return fmt.Errorf("incorrect passphrase")
	}

	if string(decrypted) != verifyMagic {
		return fmt.Errorf("incorrect passphrase")
	}

	// Collect sealed files
	var filesToOpen []string
	err = filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil // Skip unreadable files
		}

		if isAgeEncrypted(data) {
			filesToOpen = append(filesToOpen, path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan files: %w", err)
	}

	for _, path := range filesToOpen {
		if err := s.decryptFile(path, identity); err != nil {
			return fmt.Errorf("failed to unseal %s: %w", filepath.Base(path), err)
		}
	}

	os.Remove(filepath.Join(s.baseDir, markerFile))
	os.Remove(verifyPath)

	s.sealed = false
	s.identity = nil
	s.recipient = nil

	return nil
}

// encryptFile encrypts a single file in place
func (s *Storage) encryptFile(path string, recipient *age.ScryptRecipient) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if isAgeEncrypted(data) {
		return nil
	}

	encrypted, err := encryptData(data, recipient)
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, encrypted, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// decryptFile decrypts a single file in place
func (s *Storage) decryptFile(path string, identity *age.ScryptIdentity) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if !isAgeEncrypted(data) {
		return nil
	}

	decrypted, err := decryptData(data, identity)
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, decrypted, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// rollbackSeal attempts to decrypt files that were sealed during a failed migration
func (s *Storage) rollbackSeal(files []string, identity *age.ScryptIdentity) {
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if !isAgeEncrypted(data) {
			continue
		}

		decrypted, err := decryptData(data, identity)
		if err != nil {
			continue
		}

		os.WriteFile(path, decrypted, 0644)
	}
}

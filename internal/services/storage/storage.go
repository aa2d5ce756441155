package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filippo.io/age"
)

const (
	// ageHeader is the prefix of Age-encrypted files
	ageHeader = "age-encryption.org"

	// markerFile indicates the dataset directory is sealed
	markerFile = ".sealed"

	// verifyFile is used to validate the passphrase
	verifyFile = ".seal-verify"

	// verifyMagic is the expected content in the verify file
	verifyMagic = `{"magic":"shopdash-seal-verify","version":1}`
)

// Storage provides transparent access to a dataset directory whose files may
// be sealed (Age-encrypted) at rest. The dataset CSVs are read-only snapshots;
// writes only occur for snapshot exports and seal migration.
type Storage struct {
	baseDir   string
	sealed    bool
	identity  *age.ScryptIdentity
	recipient *age.ScryptRecipient
	mu        sync.RWMutex
}

// New creates a new Storage instance for the given base directory
func New(baseDir string) (*Storage, error) {
	s := &Storage{
		baseDir: baseDir,
	}

	markerPath := filepath.Join(baseDir, markerFile)
	if _, err := os.Stat(markerPath); err == nil {
		s.sealed = true
	}

	return s, nil
}

// BaseDir returns the base directory
func (s *Storage) BaseDir() string {
	return s.baseDir
}

// IsSealed returns true if the dataset directory is sealed
func (s *Storage) IsSealed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sealed
}

// IsUnlocked returns true if the directory is unsealed or has been unlocked
func (s *Storage) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.sealed || s.identity != nil
}

// Unlock derives the decryption key from the passphrase and verifies it
func (s *Storage) Unlock(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sealed {
		return nil // Nothing to unlock
	}

	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	// Verify the passphrase by decrypting the verification file
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
		return fmt.Errorf("incorrect passphrase (verification failed)")
	}

	s.identity = identity
	s.recipient, _ = age.NewScryptRecipient(password)

	return nil
}

// Lock clears the decryption key from memory
func (s *Storage) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.recipient = nil
}

// ReadFile reads and, if needed, decrypts a file
func (s *Storage) ReadFile(path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if isAgeEncrypted(data) {
		if s.identity == nil {
			return nil, fmt.Errorf("file is sealed but storage is locked")
		}
		return decryptData(data, s.identity)
	}

	return data, nil
}

// WriteFile writes a file, encrypting it when the directory is sealed
func (s *Storage) WriteFile(path string, data []byte, perm os.FileMode) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.shouldSkipSealing(path) {
		return s.atomicWrite(path, data, perm)
	}

	if s.sealed && s.recipient != nil {
		encrypted, err := encryptData(data, s.recipient)
		if err != nil {
			return fmt.Errorf("failed to encrypt: %w", err)
		}
		data = encrypted
	}

	return s.atomicWrite(path, data, perm)
}

// OpenFile returns a reader for a potentially sealed file
func (s *Storage) OpenFile(path string) (io.ReadCloser, error) {
	data, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// atomicWrite writes data to a file atomically using a temp file
func (s *Storage) atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// shouldSkipSealing returns true for files that are never encrypted
func (s *Storage) shouldSkipSealing(path string) bool {
	base := filepath.Base(path)

	if base == markerFile || base == verifyFile {
		return true
	}

	// Snapshot exports are handed to the presentation layer as-is
	sep := string(filepath.Separator)
	if strings.Contains(path, sep+"snapshots"+sep) {
		return true
	}

	return false
}

// isAgeEncrypted checks if data starts with the Age encryption header
func isAgeEncrypted(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}

// Stat returns file info, useful for checking existence
func (s *Storage) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Glob returns files matching a pattern
func (s *Storage) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

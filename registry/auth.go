package registry

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Optional admin credential guarding destructive operations. The bcrypt
// hash lives in its own mode-0600 file; while the file is absent the
// registry is open and only asks for confirmation.

// HasPassword reports whether an admin password has been set.
func HasPassword(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// SetPassword hashes the password and writes it to path.
func SetPassword(path, password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := os.WriteFile(path, hash, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// VerifyPassword compares the password against the stored hash.
func VerifyPassword(path, password string) error {
	hash, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return fmt.Errorf("invalid password")
	}
	return nil
}

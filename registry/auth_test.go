package registry

import (
	"path/filepath"
	"testing"
)

func TestPasswordLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.auth")

	if HasPassword(path) {
		t.Fatalf("no password set yet")
	}
	if err := SetPassword(path, "s3cret"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if !HasPassword(path) {
		t.Fatalf("password should be set")
	}
	if err := VerifyPassword(path, "s3cret"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := VerifyPassword(path, "wrong"); err == nil {
		t.Fatalf("wrong password accepted")
	}
}

func TestSetPasswordRejectsBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.auth")
	if err := SetPassword(path, "   "); err == nil {
		t.Fatalf("blank password accepted")
	}
	if HasPassword(path) {
		t.Fatalf("blank password should not create the auth file")
	}
}

func TestSetPasswordOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.auth")
	if err := SetPassword(path, "old"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := SetPassword(path, "new"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if err := VerifyPassword(path, "old"); err == nil {
		t.Fatalf("old password still accepted")
	}
	if err := VerifyPassword(path, "new"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

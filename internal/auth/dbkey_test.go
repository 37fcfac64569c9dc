package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestLoadDBKeyUsesEnvVarFirst(t *testing.T) {
	t.Setenv("EXPENSO_DB_KEY", "  env-key  ")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringCalled := false
	keyringGet = func(service, user string) (string, error) {
		keyringCalled = true
		return "keyring-key", nil
	}

	got, err := LoadDBKey()
	if err != nil {
		t.Fatalf("LoadDBKey() unexpected error: %v", err)
	}
	if got != "env-key" {
		t.Fatalf("LoadDBKey() = %q, want %q", got, "env-key")
	}
	if keyringCalled {
		t.Fatal("LoadDBKey() called keyringGet even though EXPENSO_DB_KEY was set")
	}
}

func TestLoadDBKeyFallsBackToKeyring(t *testing.T) {
	t.Setenv("EXPENSO_DB_KEY", "")
	t.Setenv("EXPENSO_KEYCHAIN_SERVICE", "svc")
	t.Setenv("EXPENSO_KEYCHAIN_ACCOUNT", "acct")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	var gotService, gotUser string
	keyringGet = func(service, user string) (string, error) {
		gotService = service
		gotUser = user
		return "  keyring-key  ", nil
	}

	got, err := LoadDBKey()
	if err != nil {
		t.Fatalf("LoadDBKey() unexpected error: %v", err)
	}
	if got != "keyring-key" {
		t.Fatalf("LoadDBKey() = %q, want %q", got, "keyring-key")
	}
	if gotService != "svc" || gotUser != "acct" {
		t.Fatalf("keyringGet called with (%q, %q), want (%q, %q)", gotService, gotUser, "svc", "acct")
	}
}

func TestLoadDBKeyReturnsErrorWhenKeyringFails(t *testing.T) {
	t.Setenv("EXPENSO_DB_KEY", "")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringGet = func(service, user string) (string, error) {
		return "", errors.New("boom")
	}

	_, err := LoadDBKey()
	if err == nil {
		t.Fatal("LoadDBKey() error = nil, want non-nil")
	}
	if !strings.Contains(err.Error(), "failed to read keyring item") {
		t.Fatalf("LoadDBKey() error = %q, expected keyring read context", err.Error())
	}
}

func TestLoadDBKeyReturnsErrorWhenKeyMissing(t *testing.T) {
	t.Setenv("EXPENSO_DB_KEY", "")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringGet = func(service, user string) (string, error) {
		return "", keyring.ErrNotFound
	}

	_, err := LoadDBKey()
	if err == nil {
		t.Fatal("LoadDBKey() error = nil, want non-nil")
	}
	if !strings.Contains(err.Error(), "db key is empty") {
		t.Fatalf("LoadDBKey() error = %q, expected empty-key message", err.Error())
	}
}

func TestSaveDBKeyTrimsAndStores(t *testing.T) {
	t.Setenv("EXPENSO_KEYCHAIN_SERVICE", "")
	t.Setenv("EXPENSO_KEYCHAIN_ACCOUNT", "")

	origSet := keyringSet
	defer func() { keyringSet = origSet }()

	var gotService, gotUser, gotKey string
	keyringSet = func(service, user, key string) error {
		gotService = service
		gotUser = user
		gotKey = key
		return nil
	}

	if err := SaveDBKey("  secret  "); err != nil {
		t.Fatalf("SaveDBKey() unexpected error: %v", err)
	}
	if gotService != defaultSecretService || gotUser != defaultSecretUser {
		t.Fatalf("keyringSet called with (%q, %q), want defaults", gotService, gotUser)
	}
	if gotKey != "secret" {
		t.Fatalf("stored key = %q, want %q", gotKey, "secret")
	}
}

func TestSaveDBKeyRejectsEmpty(t *testing.T) {
	origSet := keyringSet
	defer func() { keyringSet = origSet }()

	keyringSet = func(service, user, key string) error {
		t.Fatal("keyringSet called for an empty key")
		return nil
	}

	if err := SaveDBKey("   "); err == nil {
		t.Fatal("SaveDBKey() accepted an empty key")
	}
}

func TestDeleteDBKey(t *testing.T) {
	t.Setenv("EXPENSO_KEYCHAIN_SERVICE", "")
	t.Setenv("EXPENSO_KEYCHAIN_ACCOUNT", "")

	origDelete := keyringDelete
	defer func() { keyringDelete = origDelete }()

	var gotService, gotUser string
	keyringDelete = func(service, user string) error {
		gotService = service
		gotUser = user
		return nil
	}

	if err := DeleteDBKey(); err != nil {
		t.Fatalf("DeleteDBKey() unexpected error: %v", err)
	}
	if gotService != defaultSecretService || gotUser != defaultSecretUser {
		t.Fatalf("keyringDelete called with (%q, %q), want defaults", gotService, gotUser)
	}
}

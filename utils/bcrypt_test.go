package utils

import "testing"

func TestEnsurePasswordHash_KeepsExistingHash(t *testing.T) {
	hashed, err := HashPassword("rahasia")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	got, err := EnsurePasswordHash(string(hashed))
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if got != string(hashed) {
		t.Fatalf("existing hash was rewritten: %q -> %q", hashed, got)
	}
}

func TestEnsurePasswordHash_HashesPlaintext(t *testing.T) {
	got, err := EnsurePasswordHash("rahasia")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if got == "rahasia" {
		t.Fatal("plaintext stored verbatim")
	}
	if err := ComparePassword(got, "rahasia"); err != nil {
		t.Fatalf("hash does not match plaintext: %v", err)
	}
}

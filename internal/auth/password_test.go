package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "pw123" {
		t.Fatal("hash must not equal the plaintext")
	}

	t.Run("CorrectPassword", func(t *testing.T) {
		if !VerifyPassword(hash, "pw123") {
			t.Error("verify should succeed for the original password")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		if VerifyPassword(hash, "pw456") {
			t.Error("verify should fail for a different password")
		}
	})

	t.Run("MalformedHash", func(t *testing.T) {
		if VerifyPassword("not-a-bcrypt-hash", "pw123") {
			t.Error("verify should fail for a malformed hash")
		}
		if VerifyPassword("", "pw123") {
			t.Error("verify should fail for an empty hash")
		}
	})
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same-password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same-password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
	if !VerifyPassword(h1, "same-password") || !VerifyPassword(h2, "same-password") {
		t.Error("both salted hashes should verify")
	}
}

package auth

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret-password", 4)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "secret-password" {
		t.Fatalf("password stored in plaintext")
	}
	if !CheckPassword(hash, "secret-password") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatalf("expected password mismatch")
	}
}

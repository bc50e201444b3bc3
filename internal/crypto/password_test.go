package crypto

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Aa11aaaa")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "Aa11aaaa" {
		t.Fatalf("hash must not equal plaintext")
	}
	if err := CheckPassword(hash, "Aa11aaaa"); err != nil {
		t.Fatalf("expected password to match")
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected password mismatch")
	}
}

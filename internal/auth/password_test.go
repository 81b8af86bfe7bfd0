package auth

import (
	"errors"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash must not equal the password")
	}
	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := CheckPassword(hash, "wrong horse"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("CheckPassword(wrong) = %v, want ErrPasswordMismatch", err)
	}
	if err := CheckPassword("not-a-hash", "x"); err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("CheckPassword(bad hash) = %v, want wrapped bcrypt error", err)
	}
}

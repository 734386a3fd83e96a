package password

import "testing"

func TestHashAndCompare(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals the plaintext")
	}

	if err := Compare(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Compare rejected the right password: %v", err)
	}
	if err := Compare(hash, "wrong password"); err == nil {
		t.Error("Compare accepted the wrong password")
	}
}

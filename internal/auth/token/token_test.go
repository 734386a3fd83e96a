package token

import "testing"

func TestGenerateRandomTokenUnique(t *testing.T) {
	first, err := GenerateRandomToken(48)
	if err != nil {
		t.Fatalf("GenerateRandomToken returned error: %v", err)
	}
	second, err := GenerateRandomToken(48)
	if err != nil {
		t.Fatalf("GenerateRandomToken returned error: %v", err)
	}
	if first == second {
		t.Error("two generated tokens are identical")
	}
	if first == "" {
		t.Error("generated token is empty")
	}
}

func TestHashSHA256Deterministic(t *testing.T) {
	if HashSHA256("abc") != HashSHA256("abc") {
		t.Error("hash is not deterministic")
	}
	if HashSHA256("abc") == HashSHA256("abd") {
		t.Error("different inputs hashed to the same value")
	}
	if len(HashSHA256("abc")) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(HashSHA256("abc")))
	}
}

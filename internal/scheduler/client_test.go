package scheduler

import "testing"

func TestRedisClientOpt(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@localhost:6380/2")
	if err != nil {
		t.Fatalf("redisClientOpt returned error: %v", err)
	}
	if opt.Addr != "localhost:6380" {
		t.Errorf("Addr = %q, want localhost:6380", opt.Addr)
	}
	if opt.Password != "secret" {
		t.Errorf("Password = %q", opt.Password)
	}
	if opt.DB != 2 {
		t.Errorf("DB = %d, want 2", opt.DB)
	}
}

func TestRedisClientOptRejectsBadURL(t *testing.T) {
	if _, err := redisClientOpt("not-a-url"); err == nil {
		t.Error("expected error for malformed redis url")
	}
}

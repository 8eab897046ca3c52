package ratelimit

import "testing"

func TestAllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("request past burst should be denied")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := NewLimiter(1, 1)
	defer l.Stop()

	if !l.Allow("a") {
		t.Fatal("first request for key a should pass")
	}
	if l.Allow("a") {
		t.Error("second request for key a should be denied")
	}
	if !l.Allow("b") {
		t.Error("key b has its own bucket and should pass")
	}
}

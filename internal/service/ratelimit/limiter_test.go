package ratelimit

import "testing"

func TestAllowBurstThenDeny(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4:signal", 3, 0) {
			t.Fatalf("call %d should be within burst", i)
		}
	}
	if l.Allow("1.2.3.4:signal", 3, 0) {
		t.Fatal("burst exhausted, call should be denied")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a:signal", 1, 0) {
		t.Fatal("first key should be allowed")
	}
	if l.Allow("a:signal", 1, 0) {
		t.Fatal("first key should be exhausted")
	}
	if !l.Allow("b:signal", 1, 0) {
		t.Fatal("second key must have its own bucket")
	}
}

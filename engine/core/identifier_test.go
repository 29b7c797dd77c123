package core

import "testing"

func TestIdentifiersReuseReleasedSlot(t *testing.T) {
	ids := NewIdentifiers(4)
	a := ids.Acquire("a")
	b := ids.Acquire("b")
	if a != 0 || b != 1 {
		t.Fatalf("got ids %d, %d, want 0, 1", a, b)
	}
	if err := ids.Release(a); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := ids.Owner(a); got != nil {
		t.Errorf("owner after release = %v, want nil", got)
	}
	c := ids.Acquire("c")
	if c != a {
		t.Errorf("got id %d, want reused id %d", c, a)
	}
	if got := ids.Owner(c); got != "c" {
		t.Errorf("owner = %v, want c", got)
	}
}

func TestIdentifiersReleaseErrors(t *testing.T) {
	ids := NewIdentifiers(0)
	if err := ids.Release(0); err == nil {
		t.Error("expected error releasing from an empty table")
	}
	ids.Acquire("x")
	if err := ids.Release(5); err == nil {
		t.Error("expected out of range error")
	}
}

package model

import "testing"

func TestGuestStatusCycle(t *testing.T) {
	s := GuestPending
	seen := []GuestStatus{}
	for i := 0; i < 3; i++ {
		s = s.Next()
		seen = append(seen, s)
	}
	if s != GuestPending {
		t.Fatalf("expected cycle of period 3, ended at %q", s)
	}
	want := []GuestStatus{GuestConfirmed, GuestDeclined, GuestPending}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], seen[i])
		}
	}
}

func TestGuestStatusNextStaysValid(t *testing.T) {
	for _, s := range []GuestStatus{GuestPending, GuestConfirmed, GuestDeclined} {
		if !s.Next().Valid() {
			t.Errorf("%q.Next() = %q is not a valid status", s, s.Next())
		}
	}
}

func TestGuestStatusUnknownRestartsAtPending(t *testing.T) {
	if got := GuestStatus("maybe").Next(); got != GuestPending {
		t.Errorf("expected pending, got %q", got)
	}
	if GuestStatus("maybe").Valid() {
		t.Error("unknown status reported valid")
	}
}

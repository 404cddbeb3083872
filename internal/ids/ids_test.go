package ids

import "testing"

func TestNewIsMonotonic(t *testing.T) {
	prev := New()
	if len(prev) != 26 {
		t.Fatalf("id length %d, want 26", len(prev))
	}
	for i := 0; i < 1000; i++ {
		next := New()
		if next <= prev {
			t.Fatalf("ids not increasing: %s then %s", prev, next)
		}
		prev = next
	}
}

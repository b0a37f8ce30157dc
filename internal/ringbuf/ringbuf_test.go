package ringbuf

import "testing"

func TestNewRejectsBadCapacity(t *testing.T) {
	for _, n := range []int{0, 1, 3, 100} {
		if _, err := New(n); err == nil {
			t.Errorf("New(%d): expected error", n)
		}
	}
	if _, err := New(64); err != nil {
		t.Fatalf("New(64): %v", err)
	}
}

func TestFIFOOrder(t *testing.T) {
	b, _ := New(16)
	for i := 0; i < 15; i++ {
		if !b.TryPush(byte(i)) {
			t.Fatalf("push %d rejected", i)
		}
	}
	for i := 0; i < 15; i++ {
		v, ok := b.TryPop()
		if !ok {
			t.Fatalf("pop %d: buffer empty", i)
		}
		if v != byte(i) {
			t.Fatalf("pop %d: got %d", i, v)
		}
	}
	if _, ok := b.TryPop(); ok {
		t.Fatal("pop from empty buffer succeeded")
	}
}

func TestFIFOAcrossWraparound(t *testing.T) {
	b, _ := New(8)
	// Cycle enough bytes through to wrap the cursors several times.
	next := byte(0)
	want := byte(0)
	for i := 0; i < 100; i++ {
		for b.TryPush(next) {
			next++
		}
		for {
			v, ok := b.TryPop()
			if !ok {
				break
			}
			if v != want {
				t.Fatalf("iteration %d: got %d, want %d", i, v, want)
			}
			want++
		}
	}
}

func TestOverflowDropsNewest(t *testing.T) {
	b, _ := New(8)
	for i := 0; i < 7; i++ {
		if !b.TryPush(byte(i)) {
			t.Fatalf("push %d rejected before full", i)
		}
	}
	for i := 0; i < 3; i++ {
		if b.TryPush(0xEE) {
			t.Fatal("push accepted on full buffer")
		}
	}
	if b.Dropped() != 3 {
		t.Fatalf("Dropped = %d, want 3", b.Dropped())
	}
	// Entries that did fit are intact.
	for i := 0; i < 7; i++ {
		v, ok := b.TryPop()
		if !ok || v != byte(i) {
			t.Fatalf("pop %d: got %d ok=%v", i, v, ok)
		}
	}
}

func TestReset(t *testing.T) {
	b, _ := New(8)
	b.TryPush(1)
	b.TryPush(2)
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("Len after Reset = %d", b.Len())
	}
	if _, ok := b.TryPop(); ok {
		t.Fatal("pop after Reset succeeded")
	}
	if !b.TryPush(9) {
		t.Fatal("push after Reset rejected")
	}
	if v, _ := b.TryPop(); v != 9 {
		t.Fatalf("got %d after Reset", v)
	}
}

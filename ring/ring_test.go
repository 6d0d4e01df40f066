package ring

import "testing"

func TestPushPopFIFO(t *testing.T) {
	r := New[int](8)
	for i := 0; i < 7; i++ {
		if !r.Push(i) {
			t.Fatalf("push %d: unexpected failure", i)
		}
	}
	// one slot reserved: capacity 8 holds at most 7 live items.
	if r.Push(99) {
		t.Fatalf("push into full ring should fail")
	}

	var out int
	for i := 0; i < 7; i++ {
		if !r.Pop(&out) {
			t.Fatalf("pop %d: unexpected failure", i)
		}
		if out != i {
			t.Fatalf("pop order violated: want %d got %d", i, out)
		}
	}
	if r.Pop(&out) {
		t.Fatalf("pop from empty ring should fail")
	}
}

func TestPushFailsIffFull(t *testing.T) {
	r := New[int](4)
	n := 0
	for r.Push(n) {
		n++
	}
	if n != 3 {
		t.Fatalf("expected exactly 3 successful pushes into capacity-4 ring, got %d", n)
	}
	if r.Size() != 3 {
		t.Fatalf("size: want 3 got %d", r.Size())
	}
}

func TestPopFailsIffEmpty(t *testing.T) {
	r := New[int](4)
	var out int
	if r.Pop(&out) {
		t.Fatalf("pop on fresh ring should fail")
	}
	r.Push(5)
	if !r.Pop(&out) || out != 5 {
		t.Fatalf("pop after push: want 5 got %d", out)
	}
	if r.Pop(&out) {
		t.Fatalf("pop after draining should fail")
	}
}

func TestInterleavedPushPopIsPrefixPreserving(t *testing.T) {
	r := New[int](16)
	var pushed, popped []int
	var out int
	src := 0
	for step := 0; step < 200; step++ {
		if step%3 != 0 {
			if r.Push(src) {
				pushed = append(pushed, src)
				src++
			}
		} else if r.Pop(&out) {
			popped = append(popped, out)
		}
	}
	for r.Pop(&out) {
		popped = append(popped, out)
	}
	for i, v := range popped {
		if v != pushed[i] {
			t.Fatalf("popped sequence is not a prefix of pushed sequence at index %d: want %d got %d", i, pushed[i], v)
		}
	}
}

func TestNewPanicsOnBadCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on non-power-of-two capacity")
		}
	}()
	New[int](6)
}

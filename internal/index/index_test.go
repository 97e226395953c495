package index

import (
	"reflect"
	"testing"
)

func TestPushPopFIFO(t *testing.T) {
	x := New(FIFO)
	x.Push("a")
	x.Push("b")
	x.Push("c")
	if x.Len() != 3 {
		t.Fatalf("len = %d, want 3", x.Len())
	}
	for _, want := range []string{"a", "b", "c"} {
		got, ok := x.Pop()
		if !ok || got != want {
			t.Fatalf("pop = %q/%v, want %q", got, ok, want)
		}
	}
	if _, ok := x.Pop(); ok {
		t.Fatalf("pop on empty index returned a key")
	}
}

func TestPushPopLIFO(t *testing.T) {
	x := New(LIFO)
	x.Push("a")
	x.Push("b")
	x.Push("c")
	for _, want := range []string{"c", "b", "a"} {
		got, ok := x.Pop()
		if !ok || got != want {
			t.Fatalf("pop = %q/%v, want %q", got, ok, want)
		}
	}
}

func TestPeekOffsets(t *testing.T) {
	x := New(FIFO)
	x.Push("a")
	x.Push("b")
	x.Push("c")

	if k, _ := x.Peek(0); k != "a" {
		t.Fatalf("fifo peek(0) = %q", k)
	}
	if k, _ := x.Peek(2); k != "c" {
		t.Fatalf("fifo peek(2) = %q", k)
	}
	if _, ok := x.Peek(3); ok {
		t.Fatalf("peek out of bounds should miss")
	}
	if _, ok := x.Peek(-1); ok {
		t.Fatalf("negative peek should miss")
	}

	x.SetStrategy(LIFO)
	if k, _ := x.Peek(0); k != "c" {
		t.Fatalf("lifo peek(0) = %q", k)
	}
	if k, _ := x.Peek(2); k != "a" {
		t.Fatalf("lifo peek(2) = %q", k)
	}

	// Peek never mutates.
	if x.Len() != 3 {
		t.Fatalf("peek mutated index, len = %d", x.Len())
	}
}

func TestPushIgnoresDuplicates(t *testing.T) {
	x := New(FIFO)
	x.Push("a")
	x.Push("a")
	if x.Len() != 1 {
		t.Fatalf("len = %d, want 1", x.Len())
	}
}

func TestRemove(t *testing.T) {
	x := New(FIFO)
	x.Push("a")
	x.Push("b")
	x.Push("c")
	x.Remove("b")
	if got := x.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("keys after remove = %v", got)
	}
	x.Remove("nope") // no-op
	if x.Len() != 2 {
		t.Fatalf("len after removing absent key = %d", x.Len())
	}
	if x.Contains("b") {
		t.Fatalf("removed key still reported present")
	}
}

func TestRemoveAfterPops(t *testing.T) {
	x := New(FIFO)
	for _, k := range []string{"a", "b", "c", "d"} {
		x.Push(k)
	}
	x.Pop() // drop "a", head moves
	x.Remove("c")
	if got := x.Keys(); !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Fatalf("keys = %v", got)
	}
}

func TestKeysRestoreRoundTrip(t *testing.T) {
	x := New(LIFO)
	x.Push("one")
	x.Push("two")
	x.Push("three")

	keys := x.Keys()
	y := New(FIFO)
	y.Restore(keys)

	// Restore preserves insertion order; strategy stays whatever the
	// new index was configured with.
	if got, _ := y.Peek(0); got != "one" {
		t.Fatalf("restored fifo head = %q", got)
	}
	if y.Len() != 3 {
		t.Fatalf("restored len = %d", y.Len())
	}
}

func TestRestoreDropsDuplicates(t *testing.T) {
	x := New(FIFO)
	x.Restore([]string{"a", "b", "a", "c", "b"})
	if got := x.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("keys = %v", got)
	}
}

func TestCompactKeepsOrder(t *testing.T) {
	x := New(FIFO)
	for i := 0; i < 64; i++ {
		x.Push(string(rune('a' + i%26)))
	}
	// Index deduplicates, so 26 distinct keys remain.
	for i := 0; i < 20; i++ {
		x.Pop()
	}
	if x.Len() != 6 {
		t.Fatalf("len = %d, want 6", x.Len())
	}
	if k, _ := x.Peek(0); k != "u" {
		t.Fatalf("head after pops = %q", k)
	}
}

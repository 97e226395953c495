package index

// Strategy selects which end of the index is the head for Peek/Pop.
type Strategy int

const (
	// FIFO reads oldest-inserted keys first.
	FIFO Strategy = iota
	// LIFO reads newest-inserted keys first.
	LIFO
)

// Index is an insertion-ordered sequence of opaque string keys with a
// configurable read strategy. It is not safe for concurrent use; the
// queue serializes access under its own lock.
type Index struct {
	items    []string
	head     int
	present  map[string]struct{}
	strategy Strategy
}

// New returns an empty index with the given strategy.
func New(strategy Strategy) *Index {
	return &Index{present: make(map[string]struct{}), strategy: strategy}
}

// SetStrategy switches the read strategy. Stored order is unaffected;
// strategy only decides which end Peek and Pop address.
func (x *Index) SetStrategy(s Strategy) { x.strategy = s }

// Strategy returns the current read strategy.
func (x *Index) Strategy() Strategy { return x.strategy }

// Len returns the number of keys in the index.
func (x *Index) Len() int { return len(x.items) - x.head }

// IsEmpty reports whether the index holds no keys.
func (x *Index) IsEmpty() bool { return x.Len() == 0 }

// Contains reports whether key is present.
func (x *Index) Contains(key string) bool {
	_, ok := x.present[key]
	return ok
}

// Peek returns the key at logical position offset from the head
// (0 = head) without mutating the index. The second return is false
// when offset is out of bounds.
func (x *Index) Peek(offset int) (string, bool) {
	n := x.Len()
	if offset < 0 || offset >= n {
		return "", false
	}
	if x.strategy == LIFO {
		return x.items[len(x.items)-1-offset], true
	}
	return x.items[x.head+offset], true
}

// Pop removes and returns the head key per the current strategy.
func (x *Index) Pop() (string, bool) {
	n := x.Len()
	if n == 0 {
		return "", false
	}
	var key string
	if x.strategy == LIFO {
		key = x.items[len(x.items)-1]
		x.items = x.items[:len(x.items)-1]
	} else {
		key = x.items[x.head]
		x.items[x.head] = ""
		x.head++
	}
	delete(x.present, key)
	x.compact()
	return key, true
}

// Push appends key at the tail regardless of strategy. Duplicate keys
// are ignored so the index never holds the same key twice.
func (x *Index) Push(key string) {
	if _, ok := x.present[key]; ok {
		return
	}
	x.items = append(x.items, key)
	x.present[key] = struct{}{}
}

// Remove deletes the first occurrence of key anywhere in the sequence.
// No-op when key is absent.
func (x *Index) Remove(key string) {
	if _, ok := x.present[key]; !ok {
		return
	}
	for i := x.head; i < len(x.items); i++ {
		if x.items[i] == key {
			x.items = append(x.items[:i], x.items[i+1:]...)
			break
		}
	}
	delete(x.present, key)
	x.compact()
}

// Keys returns the keys in insertion order, independent of strategy.
// The returned slice is a copy safe to serialize or mutate.
func (x *Index) Keys() []string {
	out := make([]string, x.Len())
	copy(out, x.items[x.head:])
	return out
}

// Restore replaces the index contents with keys, preserving their
// order and dropping duplicates. The strategy is left untouched: it is
// runtime configuration, not persisted queue content.
func (x *Index) Restore(keys []string) {
	x.items = x.items[:0]
	x.head = 0
	x.present = make(map[string]struct{}, len(keys))
	for _, k := range keys {
		x.Push(k)
	}
}

// compact reclaims the dead prefix left behind by FIFO pops once it
// dominates the backing slice.
func (x *Index) compact() {
	if x.head == 0 {
		return
	}
	if x.Len() == 0 {
		x.items = x.items[:0]
		x.head = 0
		return
	}
	if x.head*2 >= len(x.items) {
		n := copy(x.items, x.items[x.head:])
		x.items = x.items[:n]
		x.head = 0
	}
}

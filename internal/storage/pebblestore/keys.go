package pebblestore

// Keyspace layout. All element keys for a queue share one prefix so the
// whole queue can be cleared with a single range delete:
//
//	q/{queue}/e/{key}  - element and index blobs, keyed by the queue layer
//	qmeta/{queue}      - queue registry metadata (see internal/registry)
//
// The queue layer only admits names without '/', so the layout parses
// unambiguously even when element keys contain the separator.
const (
	queuePrefix = "q/"
	elemSegment = "/e/"
)

// ElementKey returns the raw key for an element of a queue.
func ElementKey(queue, key string) []byte {
	out := make([]byte, 0, len(queuePrefix)+len(queue)+len(elemSegment)+len(key))
	out = append(out, queuePrefix...)
	out = append(out, queue...)
	out = append(out, elemSegment...)
	out = append(out, key...)
	return out
}

// QueueKeyRange returns the [lo, hi) raw key range covering every
// element of a queue. The upper bound is the prefix with its final
// byte incremented, so keys are covered whatever their first byte,
// 0xFF included.
func QueueKeyRange(queue string) ([]byte, []byte) {
	lo := make([]byte, 0, len(queuePrefix)+len(queue)+len(elemSegment))
	lo = append(lo, queuePrefix...)
	lo = append(lo, queue...)
	lo = append(lo, elemSegment...)
	hi := append([]byte{}, lo...)
	hi[len(hi)-1]++
	return lo, hi
}

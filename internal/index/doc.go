// Package index implements the ordered key index backing a queue.
//
// The index is a double-ended sequence of opaque string keys. Insertion
// always lands at the tail; the configured strategy (FIFO or LIFO) only
// decides which end Peek and Pop treat as the head. The whole sequence
// round-trips through Keys/Restore so the queue can persist it as a
// single blob; the strategy is deliberately excluded from that blob and
// reapplied by the caller after a restore.
//
// A slice with a moving head offset keeps Peek O(1) for the sequential
// offset scans the queue performs when skipping expired keys, and keeps
// Pop amortized O(1) under both strategies.
package index

package pillarbox

import (
	"github.com/aplr/pillarbox/internal/index"
	"github.com/aplr/pillarbox/pkg/log"
)

// Strategy selects the read/pop ordering of a queue. Insertion always
// lands at the tail; strategy only decides which end is the head.
type Strategy int

const (
	// FIFO pops the oldest-inserted element first.
	FIFO Strategy = iota
	// LIFO pops the newest-inserted element first.
	LIFO
)

func (s Strategy) String() string {
	if s == LIFO {
		return "lifo"
	}
	return "fifo"
}

func (s Strategy) index() index.Strategy {
	if s == LIFO {
		return index.LIFO
	}
	return index.FIFO
}

// Backend selects the persistence engine backing a queue.
type Backend int

const (
	// BackendPebble stores elements in a Pebble database under the
	// queue directory. The default.
	BackendPebble Backend = iota
	// BackendFiles stores each element as its own file under the queue
	// directory.
	BackendFiles
)

// SyncMode controls how eagerly writes reach stable storage. It only
// applies to BackendPebble; the file backend always syncs.
type SyncMode int

const (
	// SyncAlways fsyncs every write before it returns. The default.
	SyncAlways SyncMode = iota
	// SyncInterval lets the engine coalesce syncs over a short window,
	// trading a bounded durability gap for throughput.
	SyncInterval
	// SyncNever leaves syncing to the engine's own policy.
	SyncNever
)

// Config configures a queue opened with Open.
type Config[T any] struct {
	// Strategy is the read ordering. Defaults to FIFO. It is runtime
	// configuration: reopening an existing queue with a different
	// strategy reorders reads without touching stored elements.
	Strategy Strategy
	// Codec serializes elements. Defaults to JSONCodec.
	Codec Codec[T]
	// Backend selects the persistence engine. Defaults to BackendPebble.
	Backend Backend
	// Sync controls write durability for BackendPebble.
	Sync SyncMode
	// Logger receives structural events (orphan skips, index resets).
	// Defaults to a no-op logger.
	Logger log.Logger
}

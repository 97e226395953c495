package pebblestore

import (
	"errors"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/aplr/pillarbox/internal/storage"
)

// FsyncMode defines durability behavior for write operations.
type FsyncMode int

const (
	FsyncModeUnspecified FsyncMode = iota
	// FsyncModeAlways requests a WAL fsync on each committed write.
	FsyncModeAlways
	// FsyncModeInterval enables group-commit by allowing Pebble to
	// coalesce WAL syncs for operations within the configured interval.
	FsyncModeInterval
	// FsyncModeNever avoids forcing WAL syncs from the application.
	// Pebble may still sync based on its own policies. Trades
	// durability latency for throughput; use with care.
	FsyncModeNever
)

// Options configures the Pebble store wrapper.
type Options struct {
	// DataDir is the path to the Pebble database directory.
	DataDir string
	// Fsync determines when to sync the WAL.
	Fsync FsyncMode
	// FsyncInterval controls group-commit when Fsync=FsyncModeInterval.
	FsyncInterval time.Duration
	// PebbleOptions allows advanced tuning. If nil, defaults are used.
	PebbleOptions *pebble.Options
	// Metrics allows observing read/write latencies and sizes. Optional.
	Metrics MetricsHook
}

// MetricsHook is a minimal hook surface for storage observations.
type MetricsHook interface {
	ObserveWrite(elapsed time.Duration, bytes int)
	ObserveRead(elapsed time.Duration, bytes int)
}

// NoopMetrics is used when no metrics hook is provided.
type NoopMetrics struct{}

func (NoopMetrics) ObserveWrite(time.Duration, int) {}
func (NoopMetrics) ObserveRead(time.Duration, int)  {}

// DB wraps a Pebble database instance with fsync policy and helpers.
// One DB can back any number of named queues; each queue operates on
// its own keyspace through Queue.
type DB struct {
	inner     *pebble.DB
	writeSync bool
	metrics   MetricsHook
}

// Open creates or opens a Pebble database with the provided options.
func Open(opts Options) (*DB, error) {
	if opts.DataDir == "" {
		return nil, errors.New("pebblestore: Options.DataDir is required")
	}

	po := opts.PebbleOptions
	if po == nil {
		po = &pebble.Options{}
	}

	switch opts.Fsync {
	case FsyncModeAlways:
		// Sync on each write; WALMinSyncInterval stays at default (0).
	case FsyncModeInterval:
		if opts.FsyncInterval <= 0 {
			opts.FsyncInterval = 5 * time.Millisecond
		}
		po.WALMinSyncInterval = func() time.Duration { return opts.FsyncInterval }
	case FsyncModeNever:
	default:
		// Small group-commit window for a reasonable latency/throughput
		// tradeoff.
		po.WALMinSyncInterval = func() time.Duration { return 5 * time.Millisecond }
	}

	inner, err := pebble.Open(opts.DataDir, po)
	if err != nil {
		return nil, err
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	return &DB{
		inner:     inner,
		writeSync: opts.Fsync == FsyncModeAlways,
		metrics:   metrics,
	}, nil
}

// Close closes the Pebble database.
func (db *DB) Close() error {
	if db == nil || db.inner == nil {
		return nil
	}
	return db.inner.Close()
}

func (db *DB) writeOpts() *pebble.WriteOptions {
	if db.writeSync {
		return pebble.Sync
	}
	return pebble.NoSync
}

// get copies the value for the given raw key.
func (db *DB) get(key []byte) ([]byte, error) {
	start := time.Now()
	val, closer, err := db.inner.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	buf := append([]byte(nil), val...)
	db.metrics.ObserveRead(time.Since(start), len(buf))
	return buf, nil
}

// set durably writes a raw key respecting the fsync policy.
func (db *DB) set(key, value []byte) error {
	start := time.Now()
	if err := db.inner.Set(key, value, db.writeOpts()); err != nil {
		return err
	}
	db.metrics.ObserveWrite(time.Since(start), len(value))
	return nil
}

// delete durably removes a raw key respecting the fsync policy.
func (db *DB) delete(key []byte) error {
	return db.inner.Delete(key, db.writeOpts())
}

// deleteRange durably removes all raw keys in [start, end).
func (db *DB) deleteRange(start, end []byte) error {
	return db.inner.DeleteRange(start, end, db.writeOpts())
}

// NewIter creates a raw Pebble iterator with the provided options.
func (db *DB) NewIter(opts *pebble.IterOptions) (*pebble.Iterator, error) {
	return db.inner.NewIter(opts)
}

var _ storage.Store = (*QueueStore)(nil)

// QueueStore is the per-queue view of a DB, implementing the Store
// contract over the queue's keyspace.
type QueueStore struct {
	db    *DB
	queue string
}

// Queue returns the Store view for a named queue.
func (db *DB) Queue(name string) *QueueStore {
	return &QueueStore{db: db, queue: name}
}

// Get returns the value for key, or storage.ErrNotFound.
func (s *QueueStore) Get(key string) ([]byte, error) {
	return s.db.get(ElementKey(s.queue, key))
}

// Set durably writes value under key.
func (s *QueueStore) Set(key string, value []byte) error {
	return s.db.set(ElementKey(s.queue, key), value)
}

// Remove durably deletes key. Absent keys are a no-op.
func (s *QueueStore) Remove(key string) error {
	return s.db.delete(ElementKey(s.queue, key))
}

// Contains reports whether key has a value.
func (s *QueueStore) Contains(key string) (bool, error) {
	_, err := s.db.get(ElementKey(s.queue, key))
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get is the raw-key variant used by the registry and tests.
func (db *DB) Get(key []byte) ([]byte, error) { return db.get(key) }

// Set is the raw-key variant used by the registry.
func (db *DB) Set(key, value []byte) error { return db.set(key, value) }

// RemoveAll durably deletes every key in the queue's keyspace.
func (s *QueueStore) RemoveAll() error {
	lo, hi := QueueKeyRange(s.queue)
	return s.db.deleteRange(lo, hi)
}

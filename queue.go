package pillarbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aplr/pillarbox/internal/index"
	"github.com/aplr/pillarbox/internal/registry"
	"github.com/aplr/pillarbox/internal/storage"
	"github.com/aplr/pillarbox/internal/storage/fsstore"
	"github.com/aplr/pillarbox/internal/storage/pebblestore"
	"github.com/aplr/pillarbox/pkg/log"
)

// Keys beginning with the reserved prefix belong to queue bookkeeping
// and can never name an element. Generated keys are UUIDs, so only an
// element identity could collide; those are rejected.
const (
	reservedPrefix = "!"
	indexKey       = "!pillarbox.index"
)

// PebbleDirName is the database directory created under the storage
// location when using BackendPebble.
const PebbleDirName = "pillarbox.db"

// ErrReservedKey is returned when an element identity or target key
// starts with the reserved '!' prefix.
var ErrReservedKey = errors.New("pillarbox: keys beginning with '!' are reserved")

// ErrInvalidName is returned by Open for queue names that do not match
// queueNameRe. Names become storage key prefixes and directory names,
// so path separators and the like are rejected up front.
var ErrInvalidName = errors.New("pillarbox: queue name must match [a-zA-Z0-9_-]{1,64}")

var queueNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Queue is a disk-persisted object queue. Elements survive process
// crashes and restarts; ordering is kept in a persisted key index while
// element bytes live beside it in the same store.
//
// All operations are safe for concurrent use from multiple goroutines.
// Two Queue instances pointed at the same storage location are not safe
// concurrently; both backends hold a lock on the location so the second
// open fails instead.
type Queue[T any] struct {
	name   string
	mu     sync.RWMutex
	idx    *index.Index
	store  storage.Store
	codec  Codec[T]
	logger log.Logger
	closer io.Closer
}

func (m SyncMode) fsync() pebblestore.FsyncMode {
	switch m {
	case SyncInterval:
		return pebblestore.FsyncModeInterval
	case SyncNever:
		return pebblestore.FsyncModeNever
	default:
		return pebblestore.FsyncModeAlways
	}
}

// Open opens the named queue at dir, creating it on first use. Names
// are limited to [a-zA-Z0-9_-]{1,64}; anything else returns
// ErrInvalidName. The
// persisted key index is restored from the store; an absent or
// undecodable index blob yields an empty queue. The configured strategy
// is applied and the index re-persisted before Open returns, so the
// strategy is always the caller's, never something recovered from disk.
func Open[T any](name, dir string, cfg Config[T]) (*Queue[T], error) {
	if !queueNameRe.MatchString(name) {
		return nil, ErrInvalidName
	}
	if dir == "" {
		return nil, errors.New("pillarbox: storage location is required")
	}

	var (
		st     storage.Store
		closer io.Closer
	)
	switch cfg.Backend {
	case BackendFiles:
		fs, err := fsstore.Open(dir, name)
		if err != nil {
			return nil, err
		}
		st, closer = fs, fs
	default:
		db, err := pebblestore.Open(pebblestore.Options{
			DataDir: filepath.Join(dir, PebbleDirName),
			Fsync:   cfg.Sync.fsync(),
		})
		if err != nil {
			return nil, err
		}
		if _, err := registry.Ensure(db, name, cfg.Strategy.String()); err != nil {
			_ = db.Close()
			return nil, err
		}
		st, closer = db.Queue(name), db
	}

	q, err := newQueue(name, st, cfg)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	q.closer = closer
	return q, nil
}

// newQueue builds a queue over an existing store and restores its index.
func newQueue[T any](name string, st storage.Store, cfg Config[T]) (*Queue[T], error) {
	codec := cfg.Codec
	if codec == nil {
		codec = JSONCodec[T]{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	q := &Queue[T]{
		name:   name,
		idx:    index.New(cfg.Strategy.index()),
		store:  st,
		codec:  codec,
		logger: logger.WithComponent("queue").With(log.F("queue", name)),
	}
	if err := q.restoreIndex(); err != nil {
		return nil, err
	}
	return q, nil
}

// restoreIndex loads the persisted key index, resets it on decode
// failure, and writes it back so disk reflects the current strategy
// handling. Runs at construction time, before any concurrent access.
func (q *Queue[T]) restoreIndex() error {
	b, err := q.store.Get(indexKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// fresh queue
	case err != nil:
		return fmt.Errorf("pillarbox: load index: %w", err)
	default:
		var keys []string
		if uerr := json.Unmarshal(b, &keys); uerr != nil {
			q.logger.Warn("index blob undecodable, resetting queue", log.Err(uerr))
		} else {
			q.idx.Restore(keys)
		}
	}
	return q.persistIndexLocked()
}

// persistIndexLocked writes the key index under the reserved key.
// Callers hold the write lock (or are in single-threaded construction).
func (q *Queue[T]) persistIndexLocked() error {
	b, err := json.Marshal(q.idx.Keys())
	if err != nil {
		return fmt.Errorf("pillarbox: encode index: %w", err)
	}
	if err := q.store.Set(indexKey, b); err != nil {
		return fmt.Errorf("pillarbox: persist index: %w", err)
	}
	return nil
}

// Name returns the queue's name.
func (q *Queue[T]) Name() string { return q.name }

// Push appends v to the queue and returns its key: the element's
// declared identity when it has one, a generated UUID otherwise.
// Pushing an element whose identity is already queued overwrites the
// stored value without adding a second index entry.
//
// The value is written before the index so a crash mid-push can only
// leave an unreferenced value behind, never an index entry pointing at
// nothing.
func (q *Queue[T]) Push(v T) (string, error) {
	key, hasID := identityKey(v)
	if !hasID {
		key = uuid.NewString()
	} else if strings.HasPrefix(key, reservedPrefix) {
		return "", ErrReservedKey
	}
	b, err := q.codec.Encode(v)
	if err != nil {
		return "", fmt.Errorf("pillarbox: encode element: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.store.Set(key, b); err != nil {
		return "", fmt.Errorf("pillarbox: store element: %w", err)
	}
	q.idx.Push(key)
	if err := q.persistIndexLocked(); err != nil {
		return "", err
	}
	q.logger.Debug("pushed element", log.F("key", key))
	return key, nil
}

// Pop removes and returns the head element per the configured strategy.
// The second return is false when the queue is empty.
//
// Index keys whose value has gone missing (a crash between index and
// value writes, or tampering) are discarded and skipped; Pop heals past
// them until it finds a live element or exhausts the index.
func (q *Queue[T]) Pop() (T, bool, error) {
	var zero T
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		key, ok := q.idx.Pop()
		if !ok {
			return zero, false, nil
		}
		// Persist the index before touching the value so the key is
		// durably gone even if the value read below fails.
		if err := q.persistIndexLocked(); err != nil {
			return zero, false, err
		}
		b, err := q.store.Get(key)
		if errors.Is(err, storage.ErrNotFound) {
			q.logger.Warn("skipping expired index key", log.F("key", key))
			continue
		}
		if err != nil {
			return zero, false, fmt.Errorf("pillarbox: read element: %w", err)
		}
		if err := q.store.Remove(key); err != nil {
			return zero, false, fmt.Errorf("pillarbox: remove element: %w", err)
		}
		v, err := q.codec.Decode(b)
		if err != nil {
			q.logger.Warn("dropping undecodable element", log.F("key", key), log.Err(err))
			continue
		}
		return v, true, nil
	}
}

// Peek returns the head element without removing it.
func (q *Queue[T]) Peek() (T, bool, error) { return q.PeekAt(0) }

// PeekAt returns the element at logical position offset from the head
// (0 = head) without removing it. Keys whose value is missing or
// undecodable are skipped, so repeated calls with no intervening writes
// return the same element.
func (q *Queue[T]) PeekAt(offset int) (T, bool, error) {
	var zero T
	if offset < 0 {
		return zero, false, nil
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	for ; ; offset++ {
		key, ok := q.idx.Peek(offset)
		if !ok {
			return zero, false, nil
		}
		b, err := q.store.Get(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return zero, false, fmt.Errorf("pillarbox: read element: %w", err)
		}
		v, err := q.codec.Decode(b)
		if err != nil {
			continue
		}
		return v, true, nil
	}
}

// Get returns the queued element stored under key. Unindexed keys are
// reported absent even if stray bytes exist for them.
func (q *Queue[T]) Get(key string) (T, bool, error) {
	var zero T
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.idx.Contains(key) {
		return zero, false, nil
	}
	b, err := q.store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("pillarbox: read element: %w", err)
	}
	v, err := q.codec.Decode(b)
	if err != nil {
		return zero, false, nil
	}
	return v, true, nil
}

// Put stores v under key, queueing the key at the tail if it is not
// already queued. When v declares an identity that differs from key the
// call is a silent no-op, mirroring the absent-on-read taxonomy.
func (q *Queue[T]) Put(v T, key string) error {
	if strings.HasPrefix(key, reservedPrefix) {
		return ErrReservedKey
	}
	if id, ok := identityKey(v); ok && id != key {
		return nil
	}
	b, err := q.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("pillarbox: encode element: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.idx.Contains(key) {
		q.idx.Push(key)
		if err := q.persistIndexLocked(); err != nil {
			return err
		}
	}
	if err := q.store.Set(key, b); err != nil {
		return fmt.Errorf("pillarbox: store element: %w", err)
	}
	return nil
}

// Update overwrites the queued element matching v's identity, keeping
// its position. It reports false without writing when v declares no
// identity or the identity is not queued. The existence check and the
// overwrite run in one critical section: a concurrent Remove either
// wins entirely or sees the updated value.
func (q *Queue[T]) Update(v T) (bool, error) {
	key, ok := identityKey(v)
	if !ok {
		return false, nil
	}
	b, err := q.codec.Encode(v)
	if err != nil {
		return false, fmt.Errorf("pillarbox: encode element: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.idx.Contains(key) {
		return false, nil
	}
	if err := q.store.Set(key, b); err != nil {
		return false, fmt.Errorf("pillarbox: store element: %w", err)
	}
	return true, nil
}

// Remove deletes the element stored under key, wherever it sits in the
// queue. Removing an unknown key is a no-op.
func (q *Queue[T]) Remove(key string) error {
	if strings.HasPrefix(key, reservedPrefix) {
		return ErrReservedKey
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.idx.Contains(key) {
		q.idx.Remove(key)
		if err := q.persistIndexLocked(); err != nil {
			return err
		}
	}
	if err := q.store.Remove(key); err != nil {
		return fmt.Errorf("pillarbox: remove element: %w", err)
	}
	return nil
}

// RemoveValue deletes the element matching v's identity. A no-op when
// v declares no identity.
func (q *Queue[T]) RemoveValue(v T) error {
	key, ok := identityKey(v)
	if !ok {
		return nil
	}
	return q.Remove(key)
}

// Elements returns every live element in head-to-tail order per the
// configured strategy, skipping keys whose value is missing.
func (q *Queue[T]) Elements() ([]T, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]T, 0, q.idx.Len())
	for offset := 0; ; offset++ {
		key, ok := q.idx.Peek(offset)
		if !ok {
			return out, nil
		}
		b, err := q.store.Get(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("pillarbox: read element: %w", err)
		}
		v, err := q.codec.Decode(b)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
}

// Len returns the number of indexed keys. It counts index entries, not
// live values, so it is O(1) and may briefly exceed the number of
// elements Pop can still return.
func (q *Queue[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.idx.Len()
}

// IsEmpty reports whether the index holds no keys.
func (q *Queue[T]) IsEmpty() bool { return q.Len() == 0 }

// Keys returns the queued keys in head-to-tail order per the configured
// strategy.
func (q *Queue[T]) Keys() []string {
	q.mu.RLock()
	defer q.mu.RUnlock()
	keys := make([]string, 0, q.idx.Len())
	for offset := 0; ; offset++ {
		key, ok := q.idx.Peek(offset)
		if !ok {
			return keys
		}
		keys = append(keys, key)
	}
}

// Clear removes every element and resets the index. This is also the
// only way space held by orphaned values is reclaimed.
func (q *Queue[T]) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.store.RemoveAll(); err != nil {
		return fmt.Errorf("pillarbox: clear store: %w", err)
	}
	q.idx.Restore(nil)
	return q.persistIndexLocked()
}

// Close releases the storage resources the queue owns. The queue must
// not be used afterwards.
func (q *Queue[T]) Close() error {
	if q.closer == nil {
		return nil
	}
	return q.closer.Close()
}

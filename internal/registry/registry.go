// Package registry tracks the queues living in one Pebble database so
// tooling can enumerate them without decoding queue internals.
package registry

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/aplr/pillarbox/internal/storage/pebblestore"
)

// Meta is the per-queue metadata record.
type Meta struct {
	Name        string `json:"name"`
	CreatedAtMs int64  `json:"createdAtMs"`
	// Strategy is the read ordering last applied to the queue. Purely
	// informational: the queue always takes its strategy from the
	// caller's configuration, never from this record.
	Strategy string `json:"strategy"`
	// Elements is a count hint derived at List time from the queue's
	// keyspace. It counts stored values, orphans included, so it can
	// exceed what the queue will actually hand out.
	Elements int64 `json:"-"`
}

var metaPrefix = []byte("qmeta/")

// metaKey builds the metadata key for a queue.
func metaKey(queue string) []byte {
	k := make([]byte, 0, len(metaPrefix)+len(queue))
	k = append(k, metaPrefix...)
	k = append(k, queue...)
	return k
}

// Ensure creates or refreshes a queue's metadata record, returning the
// effective meta. The creation timestamp of an existing record is kept.
func Ensure(db *pebblestore.DB, queue, strategy string) (Meta, error) {
	key := metaKey(queue)
	m := Meta{Name: queue, CreatedAtMs: time.Now().UnixMilli(), Strategy: strategy}
	if b, err := db.Get(key); err == nil && len(b) > 0 {
		var prev Meta
		if err := json.Unmarshal(b, &prev); err == nil && prev.CreatedAtMs > 0 {
			m.CreatedAtMs = prev.CreatedAtMs
			if prev.Strategy == strategy {
				return m, nil
			}
		}
		// fallthrough to rewrite if corrupted or strategy changed
	}
	b, err := json.Marshal(m)
	if err != nil {
		return Meta{}, err
	}
	if err := db.Set(key, b); err != nil {
		return Meta{}, err
	}
	return m, nil
}

// List returns the metadata of every queue in the database, sorted by
// name. Records that no longer decode are skipped.
func List(db *pebblestore.DB) ([]Meta, error) {
	hi := append([]byte{}, metaPrefix...)
	hi[len(hi)-1]++
	it, err := db.NewIter(&pebble.IterOptions{LowerBound: metaPrefix, UpperBound: hi})
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var out []Meta
	for ok := it.First(); ok; ok = it.Next() {
		var m Meta
		if err := json.Unmarshal(it.Value(), &m); err != nil || m.Name == "" {
			continue
		}
		n, err := countElements(db, m.Name)
		if err != nil {
			return nil, err
		}
		m.Elements = n
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// countElements counts the values stored in a queue's keyspace,
// excluding bookkeeping records under the reserved '!' prefix.
func countElements(db *pebblestore.DB, queue string) (int64, error) {
	lo, hi := pebblestore.QueueKeyRange(queue)
	it, err := db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return 0, err
	}
	defer func() { _ = it.Close() }()

	var n int64
	for ok := it.First(); ok; ok = it.Next() {
		key := it.Key()
		if len(key) > len(lo) && key[len(lo)] == '!' {
			continue
		}
		n++
	}
	return n, nil
}

// Package pillarbox implements a disk-persisted, generic object queue
// with FIFO and LIFO read ordering, intended as a durable buffer for
// work items that must survive process crashes and restarts.
//
// # Model
//
// A queue keeps two persisted artifacts in one key-value store: an
// ordered list of element keys under a reserved key, and the encoded
// element bytes under each key. Every mutating operation updates the
// in-memory index, persists it, and writes or removes element bytes in
// a fixed order chosen so a crash between steps can only strand bytes,
// never corrupt ordering:
//
//   - Push writes the value before indexing it, so an interrupted push
//     leaves an unreferenced value (wasted space), not a dangling key.
//   - Pop persists the index before reading the value, so an
//     interrupted pop leaves a value without a key; the next Push
//     cannot resurrect it and Clear eventually reclaims it.
//
// Read paths tolerate the leftovers of either interruption: index keys
// with no value are skipped silently and discarded by Pop.
//
// # Usage
//
//	type Email struct {
//	    ID   string `json:"id"`
//	    Body string `json:"body"`
//	}
//
//	func (e Email) QueueKey() string { return e.ID }
//
//	q, err := pillarbox.Open[Email]("outbox", dataDir, pillarbox.Config[Email]{
//	    Strategy: pillarbox.FIFO,
//	})
//	if err != nil { /* handle */ }
//	defer q.Close()
//
//	key, _ := q.Push(Email{ID: "m-1", Body: "hello"})
//	msg, ok, _ := q.Pop()
//	_ = key; _ = msg; _ = ok
//
// Types that do not implement Identifiable are keyed by generated
// UUIDs instead.
//
// # Concurrency
//
// All operations on one Queue are safe for concurrent use; a single
// reader/writer lock lets readers (Peek, Get, Elements, Len) proceed in
// parallel while writers are exclusive. Separate processes must not
// share a storage location: both backends lock it so the second open
// fails fast.
package pillarbox

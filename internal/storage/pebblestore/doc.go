// Package pebblestore provides the Pebble-backed Store implementation
// with a configurable fsync policy.
//
// One DB instance can back any number of named queues; Queue returns a
// per-queue view implementing the storage.Store contract over the
// queue's own keyspace.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeAlways,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	store := db.Queue("outbox")
//	_ = store.Set("k", []byte("v"))
//	v, _ := store.Get("k")
package pebblestore

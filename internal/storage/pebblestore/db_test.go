package pebblestore

import (
	"bytes"
	"testing"

	"github.com/aplr/pillarbox/internal/storage/storetest"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, openTestDB(t).Queue("q"))
}

func TestQueueKeyspacesAreIsolated(t *testing.T) {
	db := openTestDB(t)
	a := db.Queue("a")
	b := db.Queue("b")

	if err := a.Set("shared", []byte("from-a")); err != nil {
		t.Fatalf("set a: %v", err)
	}
	if err := b.Set("shared", []byte("from-b")); err != nil {
		t.Fatalf("set b: %v", err)
	}
	got, err := a.Get("shared")
	if err != nil || !bytes.Equal(got, []byte("from-a")) {
		t.Fatalf("a get = %q/%v", got, err)
	}

	// Clearing one queue leaves the other untouched.
	if err := a.RemoveAll(); err != nil {
		t.Fatalf("removeAll a: %v", err)
	}
	if ok, _ := a.Contains("shared"); ok {
		t.Fatalf("a still contains key after removeAll")
	}
	if got, _ := b.Get("shared"); !bytes.Equal(got, []byte("from-b")) {
		t.Fatalf("b lost key, got %q", got)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(Options{DataDir: dir, Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Queue("q").Set("k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db2, err := Open(Options{DataDir: dir, Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	got, err := db2.Queue("q").Get("k")
	if err != nil || !bytes.Equal(got, []byte("v")) {
		t.Fatalf("get after reopen = %q/%v", got, err)
	}
}

func TestElementKeyLayout(t *testing.T) {
	if got := string(ElementKey("outbox", "abc")); got != "q/outbox/e/abc" {
		t.Fatalf("element key = %q", got)
	}
	lo, hi := QueueKeyRange("outbox")
	if string(lo) != "q/outbox/e/" {
		t.Fatalf("range lo = %q", lo)
	}
	// The upper bound is the prefix with its last byte incremented, so
	// the range admits keys starting with any byte, 0xFF included.
	if string(hi) != "q/outbox/e0" {
		t.Fatalf("range hi = %q", hi)
	}
}

func TestRemoveAllCoversHighKeyBytes(t *testing.T) {
	db := openTestDB(t)
	q := db.Queue("q")

	if err := q.Set("\xff\xfehigh", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ok, _ := q.Contains("\xff\xfehigh"); !ok {
		t.Fatalf("key not visible before removeAll")
	}
	if err := q.RemoveAll(); err != nil {
		t.Fatalf("removeAll: %v", err)
	}
	if ok, _ := q.Contains("\xff\xfehigh"); ok {
		t.Fatalf("high-byte key survived removeAll")
	}
}

package registry

import (
	"testing"

	"github.com/aplr/pillarbox/internal/storage/pebblestore"
)

func openTestDB(t *testing.T) *pebblestore.DB {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEnsureIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	m1, err := Ensure(db, "outbox", "fifo")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if m1.Name != "outbox" || m1.CreatedAtMs == 0 {
		t.Fatalf("meta = %+v", m1)
	}
	m2, err := Ensure(db, "outbox", "fifo")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if m2.CreatedAtMs != m1.CreatedAtMs {
		t.Fatalf("createdAt changed on re-ensure: %d != %d", m2.CreatedAtMs, m1.CreatedAtMs)
	}
}

func TestEnsureRecordsStrategyChange(t *testing.T) {
	db := openTestDB(t)
	if _, err := Ensure(db, "outbox", "fifo"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	m, err := Ensure(db, "outbox", "lifo")
	if err != nil {
		t.Fatalf("ensure lifo: %v", err)
	}
	if m.Strategy != "lifo" {
		t.Fatalf("strategy = %q", m.Strategy)
	}
	list, err := List(db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Strategy != "lifo" {
		t.Fatalf("list = %+v", list)
	}
}

func TestListSortsByName(t *testing.T) {
	db := openTestDB(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := Ensure(db, name, "fifo"); err != nil {
			t.Fatalf("ensure %s: %v", name, err)
		}
	}
	list, err := List(db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Name != "alpha" || list[2].Name != "zeta" {
		t.Fatalf("list = %+v", list)
	}
}

func TestListCountsElements(t *testing.T) {
	db := openTestDB(t)
	if _, err := Ensure(db, "outbox", "fifo"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := Ensure(db, "empty", "fifo"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	st := db.Queue("outbox")
	for _, key := range []string{"k1", "k2", "k3"} {
		if err := st.Set(key, []byte("v")); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	// Bookkeeping records under the reserved prefix stay out of the hint.
	if err := st.Set("!pillarbox.index", []byte("[]")); err != nil {
		t.Fatalf("set index: %v", err)
	}

	list, err := List(db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %+v", list)
	}
	if list[0].Name != "empty" || list[0].Elements != 0 {
		t.Fatalf("empty queue hint = %+v", list[0])
	}
	if list[1].Name != "outbox" || list[1].Elements != 3 {
		t.Fatalf("outbox hint = %+v", list[1])
	}
}

func TestListSkipsCorruptRecords(t *testing.T) {
	db := openTestDB(t)
	if _, err := Ensure(db, "good", "fifo"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := db.Set([]byte("qmeta/bad"), []byte("{not json")); err != nil {
		t.Fatalf("set corrupt: %v", err)
	}
	list, err := List(db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "good" {
		t.Fatalf("list = %+v", list)
	}
}

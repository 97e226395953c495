// Package storetest exercises the storage.Store contract against any
// implementation.
package storetest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aplr/pillarbox/internal/storage"
)

// Run verifies the Store contract: get/set/remove/contains/removeAll
// semantics including the not-found sentinel and no-op removes.
func Run(t *testing.T, store storage.Store) {
	t.Helper()

	if _, err := store.Get("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing = %v, want storage.ErrNotFound", err)
	}
	if ok, err := store.Contains("missing"); err != nil || ok {
		t.Fatalf("contains missing = %v/%v, want false/nil", ok, err)
	}
	if err := store.Remove("missing"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}

	if err := store.Set("k1", []byte("hello")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get("k1")
	if err != nil || !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("get k1 = %q/%v", got, err)
	}
	if ok, _ := store.Contains("k1"); !ok {
		t.Fatalf("contains k1 = false after set")
	}

	// Overwrite.
	if err := store.Set("k1", []byte("world")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := store.Get("k1"); !bytes.Equal(got, []byte("world")) {
		t.Fatalf("get after overwrite = %q", got)
	}

	// Empty value stays distinguishable from absent.
	if err := store.Set("k2", nil); err != nil {
		t.Fatalf("set empty: %v", err)
	}
	if got, err := store.Get("k2"); err != nil || len(got) != 0 {
		t.Fatalf("get empty = %q/%v", got, err)
	}
	if ok, _ := store.Contains("k2"); !ok {
		t.Fatalf("contains k2 = false after empty set")
	}

	if err := store.Remove("k1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get("k1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get removed = %v, want storage.ErrNotFound", err)
	}

	if err := store.Set("k3", []byte("x")); err != nil {
		t.Fatalf("set k3: %v", err)
	}
	if err := store.RemoveAll(); err != nil {
		t.Fatalf("removeAll: %v", err)
	}
	for _, k := range []string{"k2", "k3"} {
		if _, err := store.Get(k); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("get %s after removeAll = %v, want storage.ErrNotFound", k, err)
		}
	}
}

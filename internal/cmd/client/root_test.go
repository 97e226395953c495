package client

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPushPopRoundTrip(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "push", "hello", "world", "--data-dir", dir, "--queue", "q")
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if keys := strings.Fields(out); len(keys) != 2 {
		t.Fatalf("push printed %q, want two keys", out)
	}

	out, err = run(t, "pop", "--count", "2", "--data-dir", dir, "--queue", "q")
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if got := strings.Fields(out); len(got) != 2 || got[0] != "hello" || got[1] != "world" {
		t.Fatalf("pop printed %q", out)
	}
}

func TestPopOnEmptyQueueSucceeds(t *testing.T) {
	out, err := run(t, "pop", "--data-dir", t.TempDir(), "--queue", "q")
	if err != nil {
		t.Fatalf("pop empty: %v", err)
	}
	if !strings.Contains(out, "empty") {
		t.Fatalf("pop empty printed %q", out)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "push", "only", "--data-dir", dir, "--queue", "q"); err != nil {
		t.Fatalf("push: %v", err)
	}
	for i := 0; i < 2; i++ {
		out, err := run(t, "peek", "--data-dir", dir, "--queue", "q")
		if err != nil {
			t.Fatalf("peek #%d: %v", i, err)
		}
		if !strings.Contains(out, "only") {
			t.Fatalf("peek #%d printed %q", i, out)
		}
	}
}

func TestListShowsQueues(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "push", "x", "y", "--data-dir", dir, "--queue", "outbox"); err != nil {
		t.Fatalf("push: %v", err)
	}
	out, err := run(t, "list", "--data-dir", dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "outbox") {
		t.Fatalf("list printed %q", out)
	}
	if !strings.Contains(out, "ELEMENTS") || !strings.Contains(out, "2") {
		t.Fatalf("list missing element count, printed %q", out)
	}
}

func TestStatsReportsLength(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "push", "a", "b", "c", "--data-dir", dir, "--queue", "q"); err != nil {
		t.Fatalf("push: %v", err)
	}
	out, err := run(t, "stats", "--data-dir", dir, "--queue", "q")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "3") || !strings.Contains(out, "q") {
		t.Fatalf("stats printed %q", out)
	}
}

func TestFlushEmptiesQueue(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "push", "a", "--data-dir", dir, "--queue", "q"); err != nil {
		t.Fatalf("push: %v", err)
	}
	if _, err := run(t, "flush", "--data-dir", dir, "--queue", "q"); err != nil {
		t.Fatalf("flush: %v", err)
	}
	out, err := run(t, "pop", "--data-dir", dir, "--queue", "q")
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if !strings.Contains(out, "empty") {
		t.Fatalf("queue not empty after flush: %q", out)
	}
}

func TestInvalidStrategyRejected(t *testing.T) {
	if _, err := run(t, "stats", "--data-dir", t.TempDir(), "--strategy", "random"); err == nil {
		t.Fatalf("invalid strategy accepted")
	}
}

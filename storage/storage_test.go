package storage

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetDelete(t *testing.T) {
	s := openTestStore(t)
	if err := s.OpenTable("BOOKS"); err != nil {
		t.Fatalf("OpenTable: %v", err)
	}
	if err := s.Put("BOOKS", "k1", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, ok, err := s.Get("BOOKS", "k1")
	if err != nil || !ok || string(v) != "v1" {
		t.Fatalf("Get: (%s, %v, %v)", v, ok, err)
	}

	if err := s.Delete("BOOKS", "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, ok, err = s.Get("BOOKS", "k1")
	if err != nil || ok {
		t.Fatalf("expected absence, got ok=%v err=%v", ok, err)
	}

	// Deleting an absent key is a no-op, not an error.
	if err := s.Delete("BOOKS", "missing"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}

func TestGetMissingKeyIsNotError(t *testing.T) {
	s := openTestStore(t)
	s.OpenTable("BOOKS")
	_, ok, err := s.Get("BOOKS", "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false")
	}
}

func TestTruncateReturnsCount(t *testing.T) {
	s := openTestStore(t)
	s.OpenTable("BOOKS")
	s.Put("BOOKS", "a", []byte("1"))
	s.Put("BOOKS", "b", []byte("2"))
	n, err := s.Truncate("BOOKS")
	if err != nil || n != 2 {
		t.Fatalf("got (%d, %v)", n, err)
	}
	kvs, err := s.Cursor("BOOKS")
	if err != nil || len(kvs) != 0 {
		t.Fatalf("expected empty table, got %v / %v", kvs, err)
	}
}

func TestCursorReturnsAllPairs(t *testing.T) {
	s := openTestStore(t)
	s.OpenTable("BOOKS")
	s.Put("BOOKS", "a", []byte("1"))
	s.Put("BOOKS", "b", []byte("2"))
	kvs, err := s.Cursor("BOOKS")
	if err != nil || len(kvs) != 2 {
		t.Fatalf("got (%v, %v)", kvs, err)
	}
}

func TestDropTableRemovesData(t *testing.T) {
	s := openTestStore(t)
	s.OpenTable("BOOKS")
	s.Put("BOOKS", "a", []byte("1"))
	if err := s.DropTable("BOOKS"); err != nil {
		t.Fatalf("DropTable: %v", err)
	}
	if err := s.OpenTable("BOOKS"); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	kvs, err := s.Cursor("BOOKS")
	if err != nil || len(kvs) != 0 {
		t.Fatalf("expected empty after drop+reopen, got %v / %v", kvs, err)
	}
}

func TestInvalidTableNameRejected(t *testing.T) {
	s := openTestStore(t)
	if err := s.OpenTable("bad name; drop"); err == nil {
		t.Fatal("expected rejection of invalid sub-table name")
	}
}

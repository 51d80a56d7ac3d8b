package lsm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/umbralabs/gstring"
	gserrors "github.com/umbralabs/gstring/errors"
)

func writeTestTable(t *testing.T, path string, pairs [][2]string) *SSTable {
	t.Helper()
	mt := NewMemtable(0)
	for _, kv := range pairs {
		mt.Put(owned(t, gstring.Heap{}, kv[0]), owned(t, gstring.Heap{}, kv[1]))
	}
	table, err := WriteTable(path, mt, 0)
	if err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	return table
}

func TestSSTable_WriteAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sstable_000000.dat")
	pairs := [][2]string{
		{"cherry", "also red"},
		{"apple", "red"},
		{"banana", "yellow"},
		{"a key stored well out of line", "a value stored well out of line"},
	}
	table := writeTestTable(t, path, pairs)
	defer table.Close()

	n, err := table.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 4 {
		t.Fatalf("Len() = %d, want 4", n)
	}

	for _, kv := range pairs {
		key, err := gstring.FromString(kv[0])
		if err != nil {
			t.Fatalf("FromString failed: %v", err)
		}
		v, ok, err := table.Get(&key)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", kv[0], err)
		}
		if !ok {
			t.Errorf("Get(%q) missed", kv[0])
			continue
		}
		if got := v.String(); got != kv[1] {
			t.Errorf("Get(%q) = %q, want %q", kv[0], got, kv[1])
		}
		if got := v.Class(); len(kv[1]) > gstring.InlineSize && got != gstring.Transient {
			t.Errorf("large mapped value Class() = %v, want %v", got, gstring.Transient)
		}
	}

	missing, _ := gstring.FromString("durian")
	if _, ok, err := table.Get(&missing); err != nil || ok {
		t.Errorf("Get on absent key = (%v, %v), want miss", ok, err)
	}
}

func TestSSTable_EachOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sstable_000000.dat")
	table := writeTestTable(t, path, [][2]string{
		{"pear", "1"}, {"fig", "2"}, {"apple", "3"},
	})
	defer table.Close()

	var keys []string
	err := table.Each(func(key, value *gstring.String) bool {
		keys = append(keys, key.String())
		return true
	})
	if err != nil {
		t.Fatalf("Each failed: %v", err)
	}
	want := []string{"apple", "fig", "pear"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestSSTable_LazyLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sstable_000000.dat")
	table := writeTestTable(t, path, [][2]string{{"k", "v"}})
	defer table.Close()

	if table.Mapped() {
		t.Errorf("table mapped before first access")
	}
	if _, err := table.Len(); err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if !table.Mapped() {
		t.Errorf("table not mapped after access")
	}
}

func TestSSTable_CloseAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sstable_000000.dat")
	table := writeTestTable(t, path, [][2]string{{"k", "v"}})

	if _, err := table.Len(); err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if table.Mapped() {
		t.Errorf("table still mapped after Close")
	}
	if err := table.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	key, _ := gstring.FromString("k")
	v, ok, err := table.Get(&key)
	if err != nil || !ok {
		t.Fatalf("Get after Reload = (%v, %v)", ok, err)
	}
	if got := v.String(); got != "v" {
		t.Errorf("got %q, want %q", got, "v")
	}
	table.Close()
}

func TestSSTable_Corrupt(t *testing.T) {
	dir := t.TempDir()

	t.Run("truncated header", func(t *testing.T) {
		path := filepath.Join(dir, "bad_header.dat")
		if err := os.WriteFile(path, []byte{1, 0, 0}, 0o644); err != nil {
			t.Fatal(err)
		}
		table := OpenTable(path, 0)
		_, err := table.Len()
		if !errors.Is(err, &gserrors.Error{Phase: gserrors.PhaseStore, Kind: gserrors.KindCorruptRecord}) {
			t.Errorf("got %v, want corrupt_record error", err)
		}
	})

	t.Run("body past end of file", func(t *testing.T) {
		path := filepath.Join(dir, "bad_body.dat")
		// Header claims a 100-byte key with no body behind it.
		if err := os.WriteFile(path, []byte{100, 0, 0, 0, 0, 0, 0, 0}, 0o644); err != nil {
			t.Fatal(err)
		}
		table := OpenTable(path, 0)
		_, err := table.Len()
		if !errors.Is(err, &gserrors.Error{Phase: gserrors.PhaseStore, Kind: gserrors.KindCorruptRecord}) {
			t.Errorf("got %v, want corrupt_record error", err)
		}
	})
}

func TestSSTable_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sstable_000000.dat")
	table := writeTestTable(t, path, [][2]string{{"k", "v"}})

	if err := table.Remove(); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("table file still present after Remove")
	}
}

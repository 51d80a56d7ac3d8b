package lsm

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/umbralabs/gstring"
	"github.com/umbralabs/gstring/errors"
)

// maxTables is the flush count that triggers compaction.
const maxTables = 4

// Tree is the log-structured merge-tree: one memtable plus an ordered list
// of SSTables, oldest first. Not safe for concurrent use.
type Tree struct {
	dir    string
	mem    *Memtable
	tables []*SSTable
	nextID int
}

// Open opens (or creates) a store rooted at dir, restoring any SSTables
// already on disk. memtableBytes sets the flush threshold; <= 0 selects
// DefaultMemtableBytes.
func Open(dir string, memtableBytes int) (*Tree, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.IO(errors.PhaseStore, "create store directory", err)
	}
	t := &Tree{
		dir: dir,
		mem: NewMemtable(memtableBytes),
	}
	if err := t.loadTables(); err != nil {
		return nil, err
	}
	return t, nil
}

// loadTables scans dir for table files and opens them in name order.
// Unreadable tables are skipped with a warning, matching the store's
// best-effort recovery on open.
func (t *Tree) loadTables() error {
	names, err := filepath.Glob(filepath.Join(t.dir, "*.dat"))
	if err != nil {
		return errors.IO(errors.PhaseStore, "scan store directory", err)
	}
	sort.Strings(names)

	for _, path := range names {
		table := OpenTable(path, tableLevel(path))
		n, err := table.Len()
		if err != nil {
			Logger().Warn("skipping unreadable sstable",
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		t.tables = append(t.tables, table)
		if id, ok := tableID(path); ok && id >= t.nextID {
			t.nextID = id + 1
		}
		Logger().Debug("loaded sstable",
			zap.String("path", path),
			zap.Int("entries", n))
	}

	if len(t.tables) > 0 {
		Logger().Info("restored sstables", zap.Int("count", len(t.tables)))
	}
	return nil
}

func tableLevel(path string) int {
	if strings.HasPrefix(filepath.Base(path), "compacted_") {
		return 1
	}
	return 0
}

// tableID extracts the numeric id from sstable_N.dat or compacted_N.dat.
func tableID(path string) (int, bool) {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".dat")
	_, num, found := strings.Cut(name, "_")
	if !found {
		return 0, false
	}
	id, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Put stores value under key, taking ownership of both. A full memtable is
// flushed before returning.
func (t *Tree) Put(key, value gstring.String) error {
	t.mem.Put(key, value)
	if t.mem.Full() {
		return t.Flush()
	}
	return nil
}

// Get returns a borrowed view of the newest value for key: the memtable
// first, then the SSTables newest to oldest. A key whose newest entry is a
// tombstone reports absent.
func (t *Tree) Get(key *gstring.String) (gstring.String, bool, error) {
	if v, ok := t.mem.Get(key); ok {
		if v.Empty() {
			return gstring.String{}, false, nil
		}
		return v, true, nil
	}
	for i := len(t.tables) - 1; i >= 0; i-- {
		v, ok, err := t.tables[i].Get(key)
		if err != nil {
			return gstring.String{}, false, err
		}
		if ok {
			if v.Empty() {
				return gstring.String{}, false, nil
			}
			return v, true, nil
		}
	}
	return gstring.String{}, false, nil
}

// Delete writes a tombstone for key, taking ownership of it.
func (t *Tree) Delete(key gstring.String) error {
	return t.Put(key, gstring.String{})
}

// Flush writes the memtable to a new SSTable and resets it. A no-op when
// the memtable is empty. Triggers compaction once the table count passes
// the limit.
func (t *Tree) Flush() error {
	if t.mem.Empty() {
		return nil
	}
	path := filepath.Join(t.dir, fmt.Sprintf("sstable_%06d.dat", t.nextID))
	t.nextID++

	table, err := WriteTable(path, t.mem, 0)
	if err != nil {
		return err
	}
	Logger().Info("flushed memtable",
		zap.String("path", path),
		zap.Int("entries", t.mem.Len()),
		zap.Int("bytes", t.mem.Bytes()))
	t.tables = append(t.tables, table)
	t.mem.Reset()

	if len(t.tables) > maxTables {
		return t.compact()
	}
	return nil
}

// compact merges every SSTable newest-wins into one compacted table and
// deletes the old files.
func (t *Tree) compact() error {
	if len(t.tables) < 2 {
		return nil
	}
	Logger().Info("compacting sstables", zap.Int("count", len(t.tables)))

	// Oldest first so newer entries overwrite. The merged views stay
	// Transient into the old mappings, which remain alive until the new
	// table is safely on disk.
	merged := NewMemtable(int(^uint(0) >> 1))
	for _, table := range t.tables {
		err := table.Each(func(key, value *gstring.String) bool {
			merged.Put(key.Borrow(), value.Borrow())
			return true
		})
		if err != nil {
			return err
		}
	}

	path := filepath.Join(t.dir, fmt.Sprintf("compacted_%06d.dat", t.nextID))
	t.nextID++
	compacted, err := WriteTable(path, merged, 1)
	if err != nil {
		return err
	}

	for _, table := range t.tables {
		if err := table.Remove(); err != nil {
			Logger().Warn("failed to delete old sstable",
				zap.String("path", table.Path()),
				zap.Error(err))
			continue
		}
		Logger().Debug("deleted old sstable", zap.String("path", table.Path()))
	}
	t.tables = []*SSTable{compacted}

	Logger().Info("compaction complete", zap.String("path", path))
	return nil
}

// TableStats describes one SSTable for Stats.
type TableStats struct {
	Path    string
	Level   int
	Entries int
}

// Stats is a point-in-time snapshot of the store's shape.
type Stats struct {
	MemEntries int
	MemBytes   int
	Tables     []TableStats
}

// Stats reports the current store shape. Unreadable tables report -1
// entries.
func (t *Tree) Stats() Stats {
	s := Stats{
		MemEntries: t.mem.Len(),
		MemBytes:   t.mem.Bytes(),
	}
	for _, table := range t.tables {
		n, err := table.Len()
		if err != nil {
			n = -1
		}
		s.Tables = append(s.Tables, TableStats{
			Path:    table.Path(),
			Level:   table.Level(),
			Entries: n,
		})
	}
	return s
}

// Close releases every mapped table. The memtable is not flushed; call
// Flush first to persist pending writes.
func (t *Tree) Close() error {
	var firstErr error
	for _, table := range t.tables {
		if err := table.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.mem.Reset()
	return firstErr
}

package lsm

import (
	"bytes"
	"encoding/binary"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/umbralabs/gstring"
	"github.com/umbralabs/gstring/errors"
	"github.com/umbralabs/gstring/internal/mmap"
)

const recordHeaderSize = 8 // u32 key_len + u32 val_len

// SSTable is an immutable sorted string table on disk. The file is
// memory-mapped on first access and decoded into Transient keys and values
// pointing into the mapping.
type SSTable struct {
	path    string
	level   int
	m       *mmap.File
	entries []memEntry
	loaded  bool
}

// OpenTable references the table at path without touching the file; the
// content is mapped and decoded lazily on first access.
func OpenTable(path string, level int) *SSTable {
	return &SSTable{path: path, level: level}
}

// WriteTable writes the memtable's entries in key order to path and
// returns a lazy handle on the new table. The records go to path+".tmp"
// first and are renamed into place after a sync, so a crash never leaves a
// half-written table behind.
func WriteTable(path string, mt *Memtable, level int) (*SSTable, error) {
	var buf bytes.Buffer
	var hdr [recordHeaderSize]byte
	mt.Each(func(key, value *gstring.String) bool {
		binary.LittleEndian.PutUint32(hdr[0:4], key.Size())
		binary.LittleEndian.PutUint32(hdr[4:8], value.Size())
		buf.Write(hdr[:])
		buf.Write(key.View())
		buf.Write(value.View())
		return true
	})

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.IO(errors.PhaseStore, "create table file", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, errors.IO(errors.PhaseStore, "write table file", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, errors.IO(errors.PhaseStore, "sync table file", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, errors.IO(errors.PhaseStore, "close table file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, errors.IO(errors.PhaseStore, "rename table file", err)
	}

	Logger().Debug("wrote sstable",
		zap.String("path", path),
		zap.Int("entries", mt.Len()),
		zap.Int("bytes", buf.Len()))
	return OpenTable(path, level), nil
}

// load maps the file and decodes its records. Idempotent.
func (t *SSTable) load() error {
	if t.loaded {
		return nil
	}
	m, err := mmap.Open(t.path)
	if err != nil {
		return errors.IO(errors.PhaseStore, "map table file", err)
	}

	data := m.Data()
	var entries []memEntry
	for off := 0; off < len(data); {
		if off+recordHeaderSize > len(data) {
			m.Close()
			return errors.CorruptRecord(errors.PhaseStore, t.path, int64(off), "truncated record header")
		}
		keyLen := int(binary.LittleEndian.Uint32(data[off : off+4]))
		valLen := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		off += recordHeaderSize
		if off+keyLen+valLen > len(data) {
			m.Close()
			return errors.CorruptRecord(errors.PhaseStore, t.path, int64(off-recordHeaderSize), "record body past end of file")
		}
		key, err := gstring.New(data[off:off+keyLen], gstring.Transient)
		if err != nil {
			m.Close()
			return err
		}
		value, err := gstring.New(data[off+keyLen:off+keyLen+valLen], gstring.Transient)
		if err != nil {
			m.Close()
			return err
		}
		entries = append(entries, memEntry{key: key, value: value})
		off += keyLen + valLen
	}

	t.m = m
	t.entries = entries
	t.loaded = true
	return nil
}

// Get returns a borrowed view of the value stored for key. The view points
// into the mapping and is invalidated by Close.
func (t *SSTable) Get(key *gstring.String) (gstring.String, bool, error) {
	if err := t.load(); err != nil {
		return gstring.String{}, false, err
	}
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].key.Compare(key) >= 0
	})
	if i < len(t.entries) && t.entries[i].key.Equal(key) {
		return t.entries[i].value.Borrow(), true, nil
	}
	return gstring.String{}, false, nil
}

// Each calls fn for every record in key order until fn returns false.
func (t *SSTable) Each(fn func(key, value *gstring.String) bool) error {
	if err := t.load(); err != nil {
		return err
	}
	for i := range t.entries {
		if !fn(&t.entries[i].key, &t.entries[i].value) {
			return nil
		}
	}
	return nil
}

// Len returns the number of records.
func (t *SSTable) Len() (int, error) {
	if err := t.load(); err != nil {
		return 0, err
	}
	return len(t.entries), nil
}

// Path returns the table's file path.
func (t *SSTable) Path() string { return t.path }

// Level returns the table's compaction level.
func (t *SSTable) Level() int { return t.level }

// Mapped reports whether the file is currently memory-mapped.
func (t *SSTable) Mapped() bool { return t.m != nil }

// Reload drops the mapping and cache and decodes the file again.
func (t *SSTable) Reload() error {
	if err := t.Close(); err != nil {
		return err
	}
	return t.load()
}

// Close releases the mapping. All views handed out by Get and Each become
// invalid.
func (t *SSTable) Close() error {
	t.entries = nil
	t.loaded = false
	if t.m == nil {
		return nil
	}
	m := t.m
	t.m = nil
	if err := m.Close(); err != nil {
		return errors.IO(errors.PhaseStore, "unmap table file", err)
	}
	return nil
}

// Remove closes the table and deletes its file.
func (t *SSTable) Remove() error {
	if err := t.Close(); err != nil {
		return err
	}
	if err := os.Remove(t.path); err != nil {
		return errors.IO(errors.PhaseStore, "remove table file", err)
	}
	return nil
}

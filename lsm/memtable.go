package lsm

import (
	"sort"

	"github.com/umbralabs/gstring"
)

// DefaultMemtableBytes is the flush threshold used when none is given.
const DefaultMemtableBytes = 1 << 20

type memEntry struct {
	key   gstring.String
	value gstring.String
}

// Memtable is the in-memory sorted table. Entries are kept ordered by the
// core comparator; lookups binary search. Not safe for concurrent use.
type Memtable struct {
	entries   []memEntry
	bytes     int
	threshold int
}

// NewMemtable returns an empty memtable that reports Full once the summed
// key and value bytes reach threshold. A threshold <= 0 selects
// DefaultMemtableBytes.
func NewMemtable(threshold int) *Memtable {
	if threshold <= 0 {
		threshold = DefaultMemtableBytes
	}
	return &Memtable{threshold: threshold}
}

// search returns the index of the first entry whose key is >= key.
func (m *Memtable) search(key *gstring.String) int {
	return sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].key.Compare(key) >= 0
	})
}

// Put inserts or replaces the value for key, taking ownership of both
// arguments. A replaced value is freed; when the key already exists the
// incoming key is freed as well since the stored one is kept.
func (m *Memtable) Put(key, value gstring.String) {
	i := m.search(&key)
	if i < len(m.entries) && m.entries[i].key.Equal(&key) {
		old := &m.entries[i].value
		m.bytes += value.Len() - old.Len()
		old.Free()
		key.Free()
		m.entries[i].value = value
		return
	}
	m.bytes += key.Len() + value.Len()
	m.entries = append(m.entries, memEntry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = memEntry{key: key, value: value}
}

// Get returns a borrowed view of the value stored for key. The view stays
// valid until the entry is replaced or the memtable is reset.
func (m *Memtable) Get(key *gstring.String) (gstring.String, bool) {
	i := m.search(key)
	if i < len(m.entries) && m.entries[i].key.Equal(key) {
		return m.entries[i].value.Borrow(), true
	}
	return gstring.String{}, false
}

// Each calls fn for every entry in key order until fn returns false.
func (m *Memtable) Each(fn func(key, value *gstring.String) bool) {
	for i := range m.entries {
		if !fn(&m.entries[i].key, &m.entries[i].value) {
			return
		}
	}
}

// Full reports whether the byte threshold has been reached.
func (m *Memtable) Full() bool { return m.bytes >= m.threshold }

// Empty reports whether the memtable holds no entries.
func (m *Memtable) Empty() bool { return len(m.entries) == 0 }

// Len returns the number of entries.
func (m *Memtable) Len() int { return len(m.entries) }

// Bytes returns the summed key and value payload bytes.
func (m *Memtable) Bytes() int { return m.bytes }

// Reset frees every owned entry and empties the table.
func (m *Memtable) Reset() {
	for i := range m.entries {
		m.entries[i].key.Free()
		m.entries[i].value.Free()
	}
	m.entries = m.entries[:0]
	m.bytes = 0
}

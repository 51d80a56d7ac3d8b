package aggregate

import (
	"sort"

	"github.com/OneOfOne/xxhash"

	"github.com/umbralabs/gstring"
)

// Record is the running aggregate for one group key.
type Record struct {
	Count uint64
	Sum   float64
	Min   float64
	Max   float64
}

// Mean returns Sum/Count, or 0 for an empty record.
func (r Record) Mean() float64 {
	if r.Count == 0 {
		return 0
	}
	return r.Sum / float64(r.Count)
}

type groupEntry struct {
	key gstring.String
	rec Record
}

// Table groups records by key content. Keys are held as the values given
// to Add; with Transient keys the table stays zero-copy over the source
// buffer and must not outlive it. Not safe for concurrent use.
type Table struct {
	buckets map[uint64][]*groupEntry
	size    int
}

// NewTable returns an empty group table.
func NewTable() *Table {
	return &Table{buckets: make(map[uint64][]*groupEntry)}
}

func hashKey(key *gstring.String) uint64 {
	return xxhash.Checksum64(key.View())
}

// Add folds one observation into the group for key, taking ownership of
// key when the group is new. Existing groups keep their stored key and
// ignore the incoming one, which for Transient keys costs nothing.
func (t *Table) Add(key gstring.String, value float64) {
	h := hashKey(&key)
	for _, e := range t.buckets[h] {
		if e.key.Equal(&key) {
			if value < e.rec.Min {
				e.rec.Min = value
			}
			if value > e.rec.Max {
				e.rec.Max = value
			}
			e.rec.Sum += value
			e.rec.Count++
			return
		}
	}
	t.buckets[h] = append(t.buckets[h], &groupEntry{
		key: key,
		rec: Record{Count: 1, Sum: value, Min: value, Max: value},
	})
	t.size++
}

// Get returns the record for key, if present.
func (t *Table) Get(key *gstring.String) (Record, bool) {
	for _, e := range t.buckets[hashKey(key)] {
		if e.key.Equal(key) {
			return e.rec, true
		}
	}
	return Record{}, false
}

// Len returns the number of groups.
func (t *Table) Len() int { return t.size }

// SortedKeys returns borrowed views of every group key in byte-wise
// lexicographic order.
func (t *Table) SortedKeys() []gstring.String {
	keys := make([]gstring.String, 0, t.size)
	for _, chain := range t.buckets {
		for _, e := range chain {
			keys = append(keys, e.key.Borrow())
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(&keys[j])
	})
	return keys
}

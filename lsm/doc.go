// Package lsm implements a toy log-structured merge-tree key/value store
// built on the gstring value type.
//
// Writes land in an in-memory sorted table (the memtable) ordered by the
// core comparator. When the memtable exceeds its byte threshold it is
// flushed to an immutable on-disk sorted string table (SSTable). Reads
// check the memtable first, then the SSTables newest to oldest. Once more
// than four SSTables accumulate they are merged newest-wins into a single
// compacted table and the old files are deleted.
//
// # On-Disk Format
//
// An SSTable is a flat sequence of little-endian length-prefixed records,
// sorted by key:
//
//	u32 key_len | u32 val_len | key bytes | val bytes
//
// Tables are written to a temporary file and atomically renamed into
// place. Readers memory-map the file and decode keys and values as
// Transient strings pointing straight into the mapping, so lookups copy
// nothing.
//
// # Tombstones
//
// Delete writes an empty value. A lookup that finds an empty value as the
// newest entry for a key reports the key as absent.
//
// # Ownership
//
// Put takes ownership of the key and value it is given; replaced values
// are freed through their own class rules. Get returns borrowed views that
// stay valid until the owning memtable entry is replaced or the backing
// table is closed.
package lsm

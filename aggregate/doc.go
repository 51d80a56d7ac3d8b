// Package aggregate streams delimiter-split rows into grouped running
// statistics, the classic station-measurement workload.
//
// Input is a flat byte buffer of "station;value\n" rows, typically a
// memory-mapped file. Station names become Transient gstring values
// pointing straight into the buffer: grouping a billion rows copies no key
// bytes. Groups live in a chained hash table keyed by the xxhash of the
// key content, with the core equality check resolving bucket collisions.
//
// Value parsing uses strconv locally; the string core deliberately has no
// numeric facilities.
package aggregate

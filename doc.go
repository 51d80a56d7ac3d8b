// Package gstring implements a compact, cache-friendly string value type
// for data-intensive code: query engines, key/value stores, and
// line-oriented aggregation.
//
// A String stores its 32-bit length, a cached 4-byte prefix of the content,
// and either the payload itself (lengths up to 12 bytes live inline and
// never allocate) or a reference to out-of-line bytes carrying one of three
// ownership classes:
//
//	Temporary   the value owns an allocation and frees it on Free
//	Persistent  the bytes are assumed valid forever (literals, constants)
//	Transient   the bytes are borrowed from another owner for now
//
// The cached prefix lets most comparisons and equality checks terminate
// without touching the full payload.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	gstring/             Root package: the string value, comparator, allocators
//	├── errors/          Structured error types shared by all packages
//	├── internal/mmap/   Read-only memory-mapped file access
//	├── lsm/             Toy log-structured merge-tree key/value store
//	├── aggregate/       Row aggregation over delimiter-split input
//	├── cmd/lsmkv/       KV store CLI with an interactive query TUI
//	└── cmd/rowagg/      Aggregation CLI over a memory-mapped file
//
// # Ownership
//
// Values have plain Go value semantics for reads: copying a String copies
// the header, and both copies see the same payload. For large Temporary
// values exactly one copy carries the obligation to call Free. Transfer
// that obligation with Move (the source is retagged Transient so its Free
// becomes a no-op), detach from a source buffer with CopyToOwned, or take
// an explicitly non-owning alias with Borrow.
//
// Lifetime of Persistent and Transient payloads is a caller contract: the
// type performs no tracking. Under a garbage collector a payload slice
// keeps its backing array alive, so the practical hazard is narrower than
// in manually managed hosts: a Transient view into a memory-mapped region
// must not outlive the mapping.
//
// # Concurrency
//
// Values are purely synchronous. Concurrent reads of distinct immutable
// values are safe; Move and Free on a shared value require external
// synchronization. A stateful Allocator shared across goroutines is
// governed by its own thread-safety contract.
package gstring

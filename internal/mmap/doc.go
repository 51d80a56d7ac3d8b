// Package mmap provides read-only memory-mapped file access.
//
// A mapped file exposes its entire content as a []byte without reading it
// into heap memory, which lets callers build zero-copy Transient string
// values directly over file spans. The mapping stays valid until Close;
// views into it must not outlive the File.
//
// This package is internal to the module.
package mmap

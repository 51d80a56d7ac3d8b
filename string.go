package gstring

import (
	"unsafe"

	"github.com/umbralabs/gstring/errors"
)

// Class is the ownership discipline of an out-of-line payload.
type Class uint8

const (
	// Temporary payloads are owned by the value and freed by Free.
	Temporary Class = iota
	// Persistent payloads are assumed valid forever. Never copied, never
	// freed.
	Persistent
	// Transient payloads are borrowed: valid only while another owner keeps
	// them alive. Never copied, never freed.
	Transient
)

func (c Class) String() string {
	switch c {
	case Temporary:
		return "temporary"
	case Persistent:
		return "persistent"
	case Transient:
		return "transient"
	}
	return "unknown"
}

const (
	// InlineSize is the longest payload stored inline. Values at or below
	// this length never allocate and always report Persistent.
	InlineSize = 12
	// PrefixSize is the number of leading payload bytes cached for
	// comparison.
	PrefixSize = 4
	// MaxSize is the longest representable payload.
	MaxSize = 1<<32 - 1
)

// String is a 16-byte-layout string value: a 32-bit size, a cached 4-byte
// prefix, and either an inline payload (size <= 12) or a classed reference
// to out-of-line bytes. The zero value is the empty string.
//
// The prefix holds the first min(size, 4) payload bytes, zero-padded, and
// is fixed at construction; the value is otherwise immutable. Unused inline
// bytes are deterministically zero so two equal short strings are equal as
// records.
type String struct {
	size   uint32
	class  Class
	prefix [PrefixSize]byte
	inline [InlineSize]byte
	data   []byte
	alloc  Allocator
}

// New builds a value over b with the requested class, allocating through
// the Heap when class is Temporary. See NewIn.
func New(b []byte, class Class) (String, error) {
	return NewIn(Heap{}, b, class)
}

// NewIn builds a value over b with the requested class.
//
// Payloads of length <= InlineSize are copied into the value itself; the
// requested class is ignored and the value reports Persistent. Larger
// Persistent and Transient payloads store a reference to b without copying.
// Larger Temporary payloads copy b into a fresh buffer from alloc; the
// returned value owns that buffer and must be released with Free.
//
// Fails with a length_overflow error when len(b) exceeds MaxSize and with
// an allocation error when alloc cannot satisfy a Temporary copy.
func NewIn(alloc Allocator, b []byte, class Class) (String, error) {
	if uint64(len(b)) > MaxSize {
		return String{}, errors.LengthOverflow(errors.PhaseConstruct, len(b))
	}
	var s String
	s.size = uint32(len(b))
	copy(s.prefix[:], b)
	if s.isSmall() {
		s.class = Persistent
		copy(s.inline[:], b)
		return s, nil
	}
	switch class {
	case Temporary:
		buf, err := alloc.Allocate(len(b))
		if err != nil {
			return String{}, errors.AllocationFailed(errors.PhaseConstruct, len(b), err)
		}
		copy(buf, b)
		s.data = buf[:len(b)]
		s.alloc = alloc
	case Persistent, Transient:
		s.data = b[:len(b):len(b)]
	default:
		return String{}, errors.InvalidInput(errors.PhaseConstruct, "unknown string class")
	}
	s.class = class
	return s, nil
}

// FromString builds a Persistent value over a host string. Go strings are
// immutable and kept alive by the reference, so borrowing them is sound.
// Fails with a length_overflow error when the string exceeds MaxSize.
func FromString(str string) (String, error) {
	if len(str) == 0 {
		return String{}, nil
	}
	return New(unsafe.Slice(unsafe.StringData(str), len(str)), Persistent)
}

func (s *String) isSmall() bool {
	return s.size <= InlineSize
}

// View returns the payload bytes without copying. The slice borrows from
// the value (inline mode) or its payload and must not be mutated.
func (s *String) View() []byte {
	if s.isSmall() {
		return s.inline[:s.size]
	}
	return s.data
}

// Size returns the payload length in bytes.
func (s *String) Size() uint32 { return s.size }

// Len returns the payload length as an int.
func (s *String) Len() int { return int(s.size) }

// Empty reports whether the value has zero length.
func (s *String) Empty() bool { return s.size == 0 }

// Class returns the ownership class. Inline values always report
// Persistent.
func (s *String) Class() Class {
	if s.isSmall() {
		return Persistent
	}
	return s.class
}

// String copies the payload into a host string.
func (s *String) String() string {
	return string(s.View())
}

// Move transfers the representation out of s. A large Temporary source is
// retagged Transient so its later Free is a no-op while the returned value
// keeps the Temporary tag and with it the freeing obligation. Inline and
// non-owning sources are plain copies.
func (s *String) Move() String {
	out := *s
	if !s.isSmall() && s.class == Temporary {
		s.class = Transient
		s.alloc = nil
	}
	return out
}

// Borrow returns a non-owning Transient alias of s. The alias is valid for
// as long as s (or whatever s borrows from) stays alive.
func (s *String) Borrow() String {
	out := *s
	if !out.isSmall() {
		out.class = Transient
		out.alloc = nil
	}
	return out
}

// Free releases the payload of a large Temporary value through its
// allocator and resets s to the empty string. Every other shape is reset
// without releasing anything, so Free is idempotent and safe on borrowed
// values.
func (s *String) Free() {
	if !s.isSmall() && s.class == Temporary && s.alloc != nil {
		s.alloc.Free(s.data)
	}
	*s = String{}
}

// Substr returns the Transient zero-copy substring [start, start+length).
// See SubstrIn.
func (s *String) Substr(start, length uint32) (String, error) {
	return s.SubstrIn(Heap{}, start, length, Transient)
}

// SubstrIn derives the substring [start, start+length) with the requested
// class. Transient (the default discipline) borrows the parent's bytes at
// the offset; Persistent does the same under a caller guarantee that the
// parent payload outlives the result; Temporary forces a fresh allocation
// and copy, fully detached from the parent. Substrings no longer than
// InlineSize collapse to inline storage regardless of the request.
//
// Fails with an out_of_range error when start+length exceeds the size.
func (s *String) SubstrIn(alloc Allocator, start, length uint32, class Class) (String, error) {
	if length > s.size || start > s.size-length {
		return String{}, errors.OutOfRange(errors.PhaseDerive, start, length, s.size)
	}
	return NewIn(alloc, s.View()[start:start+length], class)
}

// CopyToOwned returns a detached copy of s backed by the Heap. See
// CopyToOwnedIn.
func (s *String) CopyToOwned() (String, error) {
	return s.CopyToOwnedIn(Heap{})
}

// CopyToOwnedIn returns a copy of s with its own storage regardless of the
// source's class: Temporary for large payloads, inline otherwise. Use it to
// detach a value before its source buffer may be invalidated.
func (s *String) CopyToOwnedIn(alloc Allocator) (String, error) {
	return NewIn(alloc, s.View(), Temporary)
}

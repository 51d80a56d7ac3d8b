package gstring

import (
	"bytes"
	"encoding/binary"
	"math/bits"
)

// prefixDelta compares the first p bytes of two prefixes. It returns the
// unsigned difference of the lowest differing byte, or 0 when the compared
// range agrees. p must be at most PrefixSize.
func prefixDelta(a, b *[PrefixSize]byte, p uint32) int {
	x := binary.LittleEndian.Uint32(a[:]) ^ binary.LittleEndian.Uint32(b[:])
	x &= uint32(1)<<(8*p) - 1
	if x == 0 {
		return 0
	}
	// The lowest set bit locates the first differing byte: the prefix is
	// loaded little-endian, so byte i of the payload occupies bits 8i..8i+8.
	i := bits.TrailingZeros32(x) / 8
	return int(a[i]) - int(b[i])
}

// Compare three-way compares s and o in byte-wise lexicographic order of
// their content, independent of class and storage. The cached prefixes
// decide most comparisons without touching the payloads; ties on content
// sort the shorter string first. The result is bounded in [-255, 255]; the
// size tie-break is an explicit three-way, not a size subtraction.
func (s *String) Compare(o *String) int {
	m := s.size
	if o.size < m {
		m = o.size
	}
	p := m
	if p > PrefixSize {
		p = PrefixSize
	}
	if d := prefixDelta(&s.prefix, &o.prefix, p); d != 0 {
		return d
	}
	if p < m {
		if c := bytes.Compare(s.View()[p:m], o.View()[p:m]); c != 0 {
			return c
		}
	}
	switch {
	case s.size < o.size:
		return -1
	case s.size > o.size:
		return 1
	}
	return 0
}

// Less reports whether s sorts before o.
func (s *String) Less(o *String) bool {
	return s.Compare(o) < 0
}

// Equal reports whether s and o have identical content, independent of
// class and storage: two separately allocated copies of the same bytes are
// equal. Differing sizes or prefixes reject without reading the payloads;
// two inline values compare as records, which is sound because unused
// inline bytes are zero-filled at construction.
func (s *String) Equal(o *String) bool {
	if s.size != o.size || s.prefix != o.prefix {
		return false
	}
	if s.isSmall() {
		return s.inline == o.inline
	}
	return bytes.Equal(s.data, o.data)
}

// StartsWith reports whether the leading pre.Size() bytes of s equal pre.
// Rejects in O(1) when pre is longer than s; a mismatch inside the cached
// prefixes rejects without touching the payloads.
func (s *String) StartsWith(pre *String) bool {
	if pre.size > s.size {
		return false
	}
	p := pre.size
	if p > PrefixSize {
		p = PrefixSize
	}
	if prefixDelta(&s.prefix, &pre.prefix, p) != 0 {
		return false
	}
	if pre.size <= PrefixSize {
		return true
	}
	return bytes.Equal(s.View()[p:pre.size], pre.View()[p:])
}

// EndsWith reports whether the trailing suf.Size() bytes of s equal suf.
func (s *String) EndsWith(suf *String) bool {
	if suf.size > s.size {
		return false
	}
	return bytes.Equal(s.View()[s.size-suf.size:], suf.View())
}

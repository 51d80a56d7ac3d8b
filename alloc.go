package gstring

// Allocator supplies out-of-line payload storage for Temporary-class
// strings. Implementations may be stateful; a value constructed through an
// allocator carries it and releases through the same allocator on Free.
type Allocator interface {
	// Allocate returns a zeroed buffer of exactly size bytes.
	Allocate(size int) ([]byte, error)
	// Free releases a buffer previously returned by Allocate.
	Free(b []byte)
}

// Heap is the default allocator, backed by the Go runtime. Free is a no-op;
// the garbage collector reclaims the buffer once unreachable.
type Heap struct{}

func (Heap) Allocate(size int) ([]byte, error) { return make([]byte, size), nil }

func (Heap) Free(b []byte) {}

// Counting wraps another allocator and counts allocations and frees. It is
// used to verify allocation behavior in tests and to surface storage churn
// in long-running consumers. Not safe for concurrent use.
type Counting struct {
	Inner  Allocator
	Allocs int
	Frees  int
}

// NewCounting returns a Counting allocator over the Heap.
func NewCounting() *Counting {
	return &Counting{Inner: Heap{}}
}

func (c *Counting) Allocate(size int) ([]byte, error) {
	b, err := c.Inner.Allocate(size)
	if err != nil {
		return nil, err
	}
	c.Allocs++
	return b, nil
}

func (c *Counting) Free(b []byte) {
	c.Frees++
	c.Inner.Free(b)
}

// Reset clears both counters.
func (c *Counting) Reset() {
	c.Allocs = 0
	c.Frees = 0
}

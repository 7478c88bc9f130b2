package atacmd

// A Buffer is a fixed-length, owned byte region. It is the unit of data
// exchanged between callers, the command handler and a Protocol.
//
// The length of a Buffer never changes after construction.
type Buffer struct {
	b []byte
}

// NewBuffer allocates a zeroed Buffer of size bytes.
func NewBuffer(size int) *Buffer {
	if size < 0 {
		size = 0
	}

	return &Buffer{b: make([]byte, size)}
}

// BufferFrom allocates a Buffer holding a copy of b.
func BufferFrom(b []byte) *Buffer {
	buf := NewBuffer(len(b))
	copy(buf.b, b)

	return buf
}

// Len returns the fixed length of the Buffer. A nil Buffer has length 0.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}

	return len(b.b)
}

// Bytes returns the raw view of the whole Buffer. The slice capacity is
// clipped to its length so appends never write past the region.
//
// Callers must not retain the slice beyond the lifetime of the Buffer's
// owner.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}

	return b.b[:len(b.b):len(b.b)]
}

// Slice returns a bounds-checked view of n bytes starting at off.
//
// If the requested range does not fit, ErrorCodeBufferTooSmall is returned.
func (b *Buffer) Slice(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > b.Len()-n {
		return nil, ErrorCodeBufferTooSmall
	}

	return b.b[off : off+n : off+n], nil
}

// Clone returns an independent copy of the Buffer.
func (b *Buffer) Clone() *Buffer {
	return BufferFrom(b.Bytes())
}

package atacmd

import (
	"bytes"
	"math"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	var tests = []struct {
		desc string
		size int
		want int
	}{
		{desc: "empty", size: 0, want: 0},
		{desc: "negative", size: -4, want: 0},
		{desc: "sector", size: 512, want: 512},
	}

	for i, tt := range tests {
		buf := NewBuffer(tt.size)
		if want, got := tt.want, buf.Len(); want != got {
			t.Fatalf("[%02d] test %q, unexpected length: %v != %v",
				i, tt.desc, want, got)
		}
		if !bytes.Equal(buf.Bytes(), make([]byte, tt.want)) {
			t.Fatalf("[%02d] test %q, buffer not zeroed", i, tt.desc)
		}
	}
}

func TestBufferFromCopies(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	buf := BufferFrom(src)
	src[0] = 0xff

	if want, got := []byte{1, 2, 3, 4}, buf.Bytes(); !bytes.Equal(want, got) {
		t.Fatalf("unexpected contents: %v != %v", want, got)
	}
}

func TestBufferNil(t *testing.T) {
	var buf *Buffer
	if buf.Len() != 0 {
		t.Fatalf("nil buffer has length %d", buf.Len())
	}
	if buf.Bytes() != nil {
		t.Fatal("nil buffer has bytes")
	}
}

func TestBufferBytesClipped(t *testing.T) {
	buf := NewBuffer(4)
	b := buf.Bytes()
	if cap(b) != len(b) {
		t.Fatalf("capacity %d exceeds length %d", cap(b), len(b))
	}

	_ = append(b, 0xff)
	if buf.Len() != 4 {
		t.Fatalf("buffer length changed to %d", buf.Len())
	}
}

func TestBufferSlice(t *testing.T) {
	buf := BufferFrom([]byte{0, 1, 2, 3, 4, 5, 6, 7})

	var tests = []struct {
		desc   string
		off, n int
		want   []byte
		err    error
	}{
		{desc: "whole", off: 0, n: 8, want: []byte{0, 1, 2, 3, 4, 5, 6, 7}},
		{desc: "middle", off: 2, n: 3, want: []byte{2, 3, 4}},
		{desc: "empty at end", off: 8, n: 0, want: []byte{}},
		{desc: "past end", off: 6, n: 3, err: ErrorCodeBufferTooSmall},
		{desc: "negative offset", off: -1, n: 2, err: ErrorCodeBufferTooSmall},
		{desc: "negative length", off: 0, n: -1, err: ErrorCodeBufferTooSmall},
		{desc: "offset at max int", off: math.MaxInt, n: 1, err: ErrorCodeBufferTooSmall},
		{desc: "length at max int", off: 1, n: math.MaxInt, err: ErrorCodeBufferTooSmall},
	}

	for i, tt := range tests {
		got, err := buf.Slice(tt.off, tt.n)
		if want, got := tt.err, err; want != got {
			t.Fatalf("[%02d] test %q, unexpected error: %v != %v",
				i, tt.desc, want, got)
		}
		if err != nil {
			continue
		}
		if !bytes.Equal(tt.want, got) {
			t.Fatalf("[%02d] test %q, unexpected slice: %v != %v",
				i, tt.desc, tt.want, got)
		}
	}
}

func TestBufferClone(t *testing.T) {
	buf := BufferFrom([]byte{1, 2, 3})
	c := buf.Clone()
	c.Bytes()[0] = 9

	if buf.Bytes()[0] != 1 {
		t.Fatal("clone shares storage with original")
	}
}

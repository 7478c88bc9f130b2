package atacmd

import (
	"encoding/binary"

	uuid "github.com/satori/go.uuid"
)

const (
	// HeaderSize is the size of the header every formatted buffer starts with.
	//
	// 16 bytes: format identifier (UUID)
	//  4 bytes: payload size
	//  4 bytes: reserved
	HeaderSize = uuid.Size + 4 + 4
)

var (
	// AtaCommandDescriptorFormat tags a buffer holding an ATA command
	// descriptor.
	AtaCommandDescriptorFormat = uuid.Must(uuid.FromString("d7a9a1a2-46e6-4a5e-8c0b-8a1f0e2b7c31"))

	// EssenceAta1Format tags a buffer holding the ATA task file register
	// layout handed to a Protocol.
	EssenceAta1Format = uuid.Must(uuid.FromString("5b0f4c6e-2d3a-4f8e-9e61-0c4d7a3b9f12"))
)

// A Header is the fixed prefix of a formatted buffer.
type Header struct {
	Format      uuid.UUID
	PayloadSize uint32
	Reserved    uint32
}

// A Formatter is a view over a Buffer split into a Header and a payload.
// Readers inspect an existing buffer; writers initialize a fresh one.
type Formatter struct {
	buf      *Buffer
	writable bool
}

// Reader returns a read-only Formatter over buf.
//
// If buf cannot hold a Header, or holds less payload than its Header
// declares, ErrorCodeBufferTooSmall is returned.
func Reader(buf *Buffer) (*Formatter, error) {
	if buf.Len() < HeaderSize {
		return nil, ErrorCodeBufferTooSmall
	}

	f := &Formatter{buf: buf}
	if int(f.Header().PayloadSize) > buf.Len()-HeaderSize {
		return nil, ErrorCodeBufferTooSmall
	}

	return f, nil
}

// Writer returns a writable Formatter over buf. The Header is cleared and its
// payload size set to the remainder of buf; the format identifier is left
// for the structure being written to set.
func Writer(buf *Buffer) (*Formatter, error) {
	if buf.Len() < HeaderSize {
		return nil, ErrorCodeBufferTooSmall
	}

	b := buf.Bytes()
	for i := 0; i < HeaderSize; i++ {
		b[i] = 0
	}
	binary.LittleEndian.PutUint32(b[uuid.Size:uuid.Size+4], uint32(len(b)-HeaderSize))

	return &Formatter{buf: buf, writable: true}, nil
}

// Header decodes the Header of the underlying buffer.
func (f *Formatter) Header() Header {
	b := f.buf.Bytes()

	var h Header
	copy(h.Format[:], b[:uuid.Size])
	h.PayloadSize = binary.LittleEndian.Uint32(b[uuid.Size : uuid.Size+4])
	h.Reserved = binary.LittleEndian.Uint32(b[uuid.Size+4 : HeaderSize])

	return h
}

// SetFormat stores the format identifier in the Header.
//
// If f is a reader, ErrorCodeReadOnlyBuffer is returned.
func (f *Formatter) SetFormat(format uuid.UUID) error {
	if !f.writable {
		return ErrorCodeReadOnlyBuffer
	}

	copy(f.buf.Bytes()[:uuid.Size], format.Bytes())
	return nil
}

// Writable reports whether f was created by Writer.
func (f *Formatter) Writable() bool {
	return f.writable
}

// Payload returns the payload region described by the Header. Readers must
// treat the returned slice as read-only.
func (f *Formatter) Payload() []byte {
	n := int(f.Header().PayloadSize)
	b := f.buf.Bytes()

	return b[HeaderSize : HeaderSize+n : HeaderSize+n]
}

// FormatOf returns the format identifier of buf without interpreting or
// validating its payload.
//
// If buf cannot hold a Header, ErrorCodeBufferTooSmall is returned.
func FormatOf(buf *Buffer) (uuid.UUID, error) {
	if buf.Len() < HeaderSize {
		return uuid.Nil, ErrorCodeBufferTooSmall
	}

	return (&Formatter{buf: buf}).Header().Format, nil
}
